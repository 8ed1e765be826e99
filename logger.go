package baklog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golift.io/baklog/bakfile"
	"golift.io/baklog/compressor"
	"golift.io/baklog/filer"
	"golift.io/baklog/gzipper"
	"golift.io/baklog/retention"
)

// FileName is the name of the active log file inside the configured directory.
const FileName = "qbittorrent.log"

// These are the default directory and log file POSIX modes.
const (
	FileMode os.FileMode = 0o600
	DirMode  os.FileMode = 0o750
)

// flushDelay is how long a written record may sit in OS buffers before the
// debounced flush pushes it to durable storage. Bounds data loss on crash
// without paying a sync syscall per line.
const flushDelay = 2 * time.Second

// Custom errors returned by this package.
var (
	ErrNilSource = errors.New("nil Source provided")
	ErrNotOpen   = errors.New("log file is not open")
)

// Config is the data needed to create a new Logger.
type Config struct {
	Dir      string      // Directory the active log file lives in. Defaults to os.TempDir().
	Source   Source      // REQUIRED: supplies records and receives diagnostics.
	Policy   Policy      // Rotation/retention policy. Defaults to NewSettings().
	FileMode os.FileMode // POSIX mode for new files.
	DirMode  os.FileMode // POSIX mode for new folders.
	Workers  int         // Background compression workers. Default: 1.
	Level    int         // Compression level for rotated backups. Default: 6.
	filer.Filer          // Overridable file system procedures.
}

// Logger appends records from a Source to the active log file, rotating it
// into .bak backups once it crosses the policy's size threshold, sweeping
// obsolete backups, and compressing rotated files in the background.
// Obtain one from New. A single goroutine owns the file handle and every
// rotation and naming decision; compression alone runs on the worker pool.
type Logger struct {
	config  *Config
	policy  Policy
	source  Source
	path    string             // the active log file.
	file    *os.File           // open write handle, nil while disabled.
	size    int64              // current size of the active file.
	live    <-chan Msg         // records from the Source subscription.
	results <-chan *compressor.Result
	signal  chan *request      // Rotate, ChangePath and Close ops.
	pool    *compressor.Pool
	flusher *time.Timer
	armed   bool // flusher is counting down.
	filer.Filer
}

// op codes sent over the signal channel.
type reqOp uint8

const (
	opRotate reqOp = iota
	opChangePath
	opClose
)

// request crosses from the public methods into the writer goroutine.
type request struct {
	op   reqOp
	dir  string
	resp chan *response
}

// response is sent back across our go routines.
type response struct {
	size int64
	err  error
}

// New takes in your configuration, opens the active log file, replays the
// Source's backlog into it, and starts the writer goroutine. A file that
// cannot be opened does not fail construction: a critical diagnostic is
// emitted through the Source and records are dropped until a ChangePath
// or Rotate succeeds.
func New(config *Config) (*Logger, error) {
	if config.Source == nil {
		return nil, ErrNilSource
	}

	logger := &Logger{
		config: config,
		policy: config.Policy,
		source: config.Source,
		signal: make(chan *request),
		Filer:  config.Filer,
	}

	logger.setConfigDefaults()

	logger.pool = compressor.New(config.Workers, logger.Filer)
	logger.results = logger.pool.Results()
	logger.flusher = time.NewTimer(flushDelay)
	logger.stopFlusher()

	logger.open(config.Dir)

	backlog, live := logger.source.Subscribe()
	logger.live = live

	for _, msg := range backlog {
		logger.append(msg)
	}

	go logger.run()

	return logger, nil
}

// setConfigDefaults does exactly what it says. Sets missing values.
func (l *Logger) setConfigDefaults() {
	if l.policy == nil {
		l.policy = NewSettings()
	}

	if l.Filer == nil {
		l.Filer = filer.Default()
	}

	if l.config.Dir == "" {
		l.config.Dir = os.TempDir()
	}

	if l.config.DirMode == 0 {
		l.config.DirMode = DirMode
	}

	if l.config.FileMode == 0 {
		l.config.FileMode = FileMode
	}

	if l.config.Level == 0 {
		l.config.Level = gzipper.DefaultLevel
	}
}

// run owns the active file. Records, compression reports, the flush timer
// and control requests all funnel through this one goroutine, so no two
// threads ever touch the file handle or the backup naming sequence.
func (l *Logger) run() {
	for {
		select {
		case msg, ok := <-l.live:
			if !ok {
				l.live = nil

				continue
			}

			l.append(msg)
		case result := <-l.results:
			l.finishCompress(result)
		case <-l.flusher.C:
			l.armed = false

			if l.file != nil {
				_ = l.file.Sync()
			}
		case req := <-l.signal:
			switch req.op {
			case opRotate:
				size, err := l.rotate()
				req.resp <- &response{size: size, err: err}
			case opChangePath:
				req.resp <- &response{err: l.changePath(req.dir)}
			case opClose:
				req.resp <- &response{err: l.stop()}

				return
			}
		}
	}
}

// Rotate forces the log to rotate immediately. Returns the size of the
// rotated log. Also the only way, besides ChangePath, to re-attempt opening
// a log file that previously failed to open.
func (l *Logger) Rotate() (int64, error) {
	resp := make(chan *response)
	l.signal <- &request{op: opRotate, resp: resp}
	r := <-resp

	return r.size, r.err
}

// ChangePath points the Logger at a new directory. A directory equal to the
// current one (compared as strings, deliberately not canonicalized, so the
// behavior matches on case-insensitive filesystems) is a no-op. Otherwise
// the active file is closed and the same obsolescence and backup checks as
// startup run against the file in the new directory.
func (l *Logger) ChangePath(dir string) error {
	resp := make(chan *response)
	l.signal <- &request{op: opChangePath, dir: dir, resp: resp}

	return (<-resp).err
}

// Close flushes and closes the active file, then waits for in-flight
// compression jobs to finish and performs their final renames. Using the
// Logger after Close will panic.
func (l *Logger) Close() error {
	resp := make(chan *response)
	l.signal <- &request{op: opClose, resp: resp}

	return (<-resp).err
}

// append writes one record - from a channel message.
func (l *Logger) append(msg Msg) {
	if l.file == nil {
		return // disabled until the next ChangePath or Rotate.
	}

	n, err := l.file.WriteString(msg.Line())
	l.size += int64(n)

	if err != nil {
		return // best effort; the handle may recover on the next record.
	}

	l.sweep()

	if l.policy.Backup() && l.size >= l.policy.MaxSize() {
		_, _ = l.rotate()
	} else {
		l.startFlusher()
	}
}

// rotate closes the active file, renames it to the next free backup name,
// hands the backup to the compressor when enabled, and reopens a fresh
// active file - from a channel message. The rotated file reached disk via
// its close, so no debounced flush is pending afterwards.
func (l *Logger) rotate() (int64, error) {
	size := l.size

	if err := l.closeFile(); err != nil {
		return size, err
	}

	if l.policy.Backup() {
		l.makeBackup(false)
	}

	return size, l.openFile()
}

// changePath implements ChangePath - from a channel message.
func (l *Logger) changePath(dir string) error {
	if dir == filepath.Dir(l.path) {
		return nil
	}

	if err := l.closeFile(); err != nil {
		return err
	}

	l.open(dir)

	if l.file == nil {
		return ErrNotOpen
	}

	return nil
}

// open points the Logger at dir and opens the active file there, applying
// the startup checks: an obsolete file is deleted in place (followed by a
// backup sweep) instead of being appended to; a file already past the size
// threshold is rotated into a backup before opening. Obsolescence is
// evaluated before the sweep; the two checks are observably ordered only
// in contrived timestamp edge cases.
func (l *Logger) open(dir string) {
	l.path = filepath.Join(dir, FileName)

	if err := l.MkdirAll(dir, l.config.DirMode); err != nil {
		l.disable(err)

		return
	}

	if info, err := l.Stat(l.path); err == nil {
		age, unit := l.policy.Age()

		if retention.Obsolete(info.ModTime(), unit, age, time.Now()) {
			_ = l.Remove(l.path)
			l.sweep()
		} else if l.policy.Backup() && info.Size() >= l.policy.MaxSize() {
			l.makeBackup(true)
		}
	}

	_ = l.openFile()
}

// openFile opens the active file for appending, creating it if absent.
func (l *Logger) openFile() error {
	file, err := l.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, l.config.FileMode)
	if err != nil {
		l.disable(err)

		return fmt.Errorf("error with new logfile: %w", err)
	}

	l.file = file
	l.size = 0

	if info, err := file.Stat(); err == nil {
		l.size = info.Size()
	}

	return nil
}

// disable drops the handle and tells the world via the diagnostics sink.
// No automatic retry: records are dropped until ChangePath or Rotate.
func (l *Logger) disable(err error) {
	l.file = nil
	l.source.Emit(Critical,
		fmt.Sprintf("An error occurred while trying to open the log file: %v. Logging to file is disabled.", err))
}

// makeBackup renames the (closed) active file to the next free backup name
// and, when compression is enabled, submits it to the worker pool without
// waiting. disableOnFail marks startup/path-change backups: if compressing
// one of those fails, compression is switched off in the policy.
func (l *Logger) makeBackup(disableOnFail bool) {
	backup := bakfile.Next(l.Filer, l.path, false)

	if err := l.Rename(l.path, backup); err != nil {
		l.source.Emit(Warning, fmt.Sprintf("Couldn't rotate %s to %s: %v", l.path, backup, err))

		return
	}

	if l.policy.Compress() {
		l.pool.Submit(compressor.Job{
			Base:          l.path,
			Source:        backup,
			Level:         l.config.Level,
			DisableOnFail: disableOnFail,
		})
	}
}

// finishCompress handles one compression report - from a channel message.
// The final rename happens here, on the writer goroutine, so backup naming
// stays single-threaded.
func (l *Logger) finishCompress(result *compressor.Result) {
	if result.Err != nil {
		if result.Job.DisableOnFail {
			l.policy.SetCompress(false)
		}

		l.source.Emit(Warning, fmt.Sprintf("Couldn't compress backup %s: %v", result.Job.Source, result.Err))

		return
	}

	final := bakfile.Next(l.Filer, result.Job.Base, true)

	if err := l.Rename(result.TempPath, final); err != nil {
		// The temp file still holds the data; leave it for a human.
		l.source.Emit(Warning, fmt.Sprintf("Couldn't rename %s to %s: %v", result.TempPath, final, err))

		return
	}

	const kilobyte = 1024

	l.source.Emit(Info, fmt.Sprintf("Compressed backup %s: %dkB -> %dkB in %v",
		final, result.OldSize/kilobyte, result.NewSize/kilobyte, result.Elapsed.Round(time.Millisecond)))
}

// sweep deletes obsolete backups, oldest first, when the policy asks for it.
func (l *Logger) sweep() {
	if !l.policy.DeleteOld() {
		return
	}

	var (
		age, unit = l.policy.Age()
		now       = time.Now()
	)

	_, err := bakfile.Sweep(l.Filer, l.path, l.policy.Compress(), func(modified time.Time) bool {
		return retention.Obsolete(modified, unit, age, now)
	})
	if err != nil {
		l.source.Emit(Warning, fmt.Sprintf("Couldn't delete old backup: %v", err))
	}
}

// startFlusher arms the debounced flush, only when it isn't already counting.
func (l *Logger) startFlusher() {
	if !l.armed {
		l.flusher.Reset(flushDelay)
		l.armed = true
	}
}

// stopFlusher disarms the flush timer and drains a fired-but-unread tick.
func (l *Logger) stopFlusher() {
	if !l.flusher.Stop() {
		select {
		case <-l.flusher.C:
		default:
		}
	}

	l.armed = false
}

// closeFile flushes and closes the active log file.
func (l *Logger) closeFile() error {
	l.stopFlusher()

	if l.file == nil {
		return nil
	}

	_ = l.file.Sync()
	err := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("closing log file %s: %w", l.path, err)
	}

	return nil
}

// stop shuts everything down - from a channel message. In-flight compression
// jobs are allowed to finish and their final renames still happen; aborting
// one could leave a half-written compressed file behind.
func (l *Logger) stop() error {
	err := l.closeFile()

	go l.pool.Close()

	for result := range l.results {
		l.finishCompress(result)
	}

	return err
}
