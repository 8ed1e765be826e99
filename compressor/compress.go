// Package compressor shrinks rotated backup log files in the background.
// Jobs are plain values submitted to a bounded worker pool; Submit never
// blocks the caller. A finished job reports back on the Results channel,
// leaving the final rename of the compressed artifact to the consumer so
// that backup naming stays in a single goroutine's hands.
package compressor

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golift.io/baklog/filer"
	"golift.io/baklog/gzipper"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 1

// Job describes one rotated file to compress.
type Job struct {
	Base          string // The active log path the backup belongs to; naming root for the final artifact.
	Source        string // The rotated, uncompressed backup file.
	Level         int    // Compression level; out-of-range falls back to the gzip default.
	DisableOnFail bool   // Marks jobs whose failure should turn compression off.
}

// Result reports one finished Job. Always check Err: when it is set the
// source file is left untouched and TempPath is empty. On success the
// source file is gone and TempPath holds the compressed artifact, carrying
// the source's timestamps, awaiting its final rename by the consumer.
type Result struct {
	Job      Job
	TempPath string
	OldSize  int64
	NewSize  int64
	Elapsed  time.Duration
	Err      error
}

// Pool runs compression jobs on a bounded number of workers.
// Results must be consumed, or Close will block behind unread reports.
type Pool struct {
	filer.Filer
	sem      *semaphore.Weighted
	results  chan *Result
	inflight map[string]struct{}
	mu       sync.Mutex
	wg       sync.WaitGroup
}

// New returns a Pool running at most workers jobs at once.
func New(workers int, fs filer.Filer) *Pool {
	if workers < 1 {
		workers = DefaultWorkers
	}

	if fs == nil {
		fs = filer.Default()
	}

	return &Pool{
		Filer:    fs,
		sem:      semaphore.NewWeighted(int64(workers)),
		results:  make(chan *Result, workers),
		inflight: make(map[string]struct{}),
	}
}

// Submit schedules one job and returns immediately. Concurrency is bounded
// by the pool size, not by Submit. A job for a path that is already being
// compressed is dropped; rotation hands each backup a unique name, so this
// guard only matters for misbehaving callers.
func (p *Pool) Submit(job Job) {
	p.mu.Lock()

	if _, dup := p.inflight[job.Source]; dup {
		p.mu.Unlock()

		return
	}

	p.inflight[job.Source] = struct{}{}
	p.mu.Unlock()

	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		_ = p.sem.Acquire(context.Background(), 1)
		result := p.compress(job)
		p.sem.Release(1)

		p.mu.Lock()
		delete(p.inflight, job.Source)
		p.mu.Unlock()

		p.results <- result
	}()
}

// Results returns the channel finished jobs are reported on.
func (p *Pool) Results() <-chan *Result {
	return p.results
}

// Close waits for in-flight jobs to finish, then closes the Results channel.
// Jobs are never aborted mid-stream; a half-written compressed file would be
// worse than a late one.
func (p *Pool) Close() {
	p.wg.Wait()
	close(p.results)
}

// TempName returns the intermediate output name for a source file:
// the source path plus an epoch-base36 stamp and the compressed suffix.
func TempName(source string) string {
	const base36 = 36

	return source + "." + strconv.FormatInt(time.Now().Unix(), base36) + ".gz"
}

// compress runs one job: capture the source file's timestamps, stream it
// into a gzip temp file, copy the timestamps onto the temp file and delete
// the source. On any failure the temp file is discarded and the source is
// left in place, so log data is never lost to a failed compression.
func (p *Pool) compress(job Job) *Result {
	result := &Result{Job: job}
	start := time.Now()

	defer func() { result.Elapsed = time.Since(start) }()

	info, err := p.Stat(job.Source)
	if err != nil {
		result.Err = fmt.Errorf("stating source file: %w", err)

		return result
	}

	result.OldSize = info.Size()
	temp := TempName(job.Source)

	if result.Err = p.compressFile(job.Source, temp, info.Mode(), job.Level); result.Err != nil {
		_ = p.Remove(temp)

		return result
	}

	// The compressed copy inherits the source's timestamps, so its
	// retention age carries over. Creation and metadata-change times
	// cannot be written back on UNIX.
	_ = p.Chtimes(temp, info.AccessTime, info.ModTime())
	_ = p.Remove(job.Source)

	if tempInfo, err := p.Stat(temp); err == nil {
		result.NewSize = tempInfo.Size()
	}

	result.TempPath = temp

	return result
}

// compressFile streams source into a freshly created dest.
func (p *Pool) compressFile(source, dest string, mode os.FileMode, level int) error {
	src, err := p.OpenFile(source, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	dst, err := p.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("opening temp file: %w", err)
	}

	if err := gzipper.Compress(src, dst, level); err != nil {
		dst.Close()

		return fmt.Errorf("%s -> %s: %w", source, dest, err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	return nil
}
