// Package baklog is a self-rotating, optionally-compressed log file writer.
// It subscribes to a record source, appends each record to an active log
// file, and rotates the file into numbered .bak backups once it crosses a
// configurable size threshold. Rotated backups can be gzip-compressed on a
// background worker pool without blocking new writes, and backups past a
// calendar-based retention age are swept away.
//
// The writer is built around one goroutine that owns the file handle and
// every rotation, naming, and deletion decision; only compression runs
// concurrently. Backup names are found by probing file.log.bak, .bak1,
// .bak2 and so on for the first unused path, so a name is never reused
// while its file exists.
//
// The subpackages are usable on their own:
//
//	https://pkg.go.dev/golift.io/baklog/bakfile
//	https://pkg.go.dev/golift.io/baklog/compressor
//	https://pkg.go.dev/golift.io/baklog/gzipper
//	https://pkg.go.dev/golift.io/baklog/retention
package baklog
