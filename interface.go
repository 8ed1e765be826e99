package baklog

import "golift.io/baklog/retention"

// Source supplies the records a Logger writes, and doubles as the sink the
// Logger reports its own diagnostics through. Subscribe returns the records
// buffered before the subscription as a one-time backlog, then every later
// record on the live channel. The Bus type is a ready-made Source.
type Source interface {
	Subscribe() (backlog []Msg, live <-chan Msg)
	Emit(level Severity, text string)
}

// Policy supplies the rotation and retention knobs, and may change them at
// any time; each value is re-read on the operation it affects, so a change
// never re-evaluates files already on disk. SetCompress exists so the
// Logger can turn compression off after a failed backup compression during
// a path change. The Settings type is a ready-made Policy.
type Policy interface {
	MaxSize() int64
	Backup() bool
	Compress() bool
	SetCompress(enabled bool)
	DeleteOld() bool
	Age() (quantity int, unit retention.Unit)
}
