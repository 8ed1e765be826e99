package compressor_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/baklog/compressor"
	"golift.io/baklog/gzipper"
)

func TestCompressJob(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var (
		source  = filepath.Join(t.TempDir(), "service.log.bak")
		payload = bytes.Repeat([]byte("a log line that was rotated away\n"), 10000)
		mtime   = time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	)

	require.NoError(t, os.WriteFile(source, payload, 0o600))
	require.NoError(t, os.Chtimes(source, mtime, mtime))

	pool := compressor.New(2, nil)
	pool.Submit(compressor.Job{Source: source, Level: gzipper.DefaultLevel})

	result := <-pool.Results()
	pool.Close()

	require.NoError(t, result.Err)
	assert.Equal(int64(len(payload)), result.OldSize)
	assert.Less(result.NewSize, result.OldSize, "compressed log data must shrink")
	assert.NotEmpty(result.TempPath)

	_, err := os.Stat(source)
	assert.True(os.IsNotExist(err), "the uncompressed source must be deleted on success")

	// The temp artifact keeps the source's timestamps and inflates back.
	info, err := os.Stat(result.TempPath)
	require.NoError(t, err)
	assert.Equal(mtime, info.ModTime().Truncate(time.Second))

	packed, err := os.ReadFile(result.TempPath)
	require.NoError(t, err)

	unpacked, err := gzipper.Decompress(packed)
	require.NoError(t, err)
	assert.Equal(payload, unpacked)
}

func TestCompressMissingSource(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	pool := compressor.New(1, nil)
	pool.Submit(compressor.Job{
		Source:        filepath.Join(t.TempDir(), "never-rotated.log.bak"),
		Level:         gzipper.DefaultLevel,
		DisableOnFail: true,
	})

	result := <-pool.Results()
	pool.Close()

	assert.Error(result.Err)
	assert.Empty(result.TempPath)
	assert.True(result.Job.DisableOnFail, "the job flags must round-trip through the result")
}

func TestCloseDrainsInFlight(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	pool := compressor.New(1, nil)

	const jobs = 4

	for i := 0; i < jobs; i++ {
		source := filepath.Join(dir, "file.log.bak"+string(rune('a'+i)))
		require.NoError(t, os.WriteFile(source, bytes.Repeat([]byte("z"), 4096), 0o600))
		pool.Submit(compressor.Job{Source: source, Level: gzipper.DefaultLevel})
	}

	done := make(chan struct{})

	go func() {
		pool.Close()
		close(done)
	}()

	seen := 0
	for result := range pool.Results() {
		assert.NoError(result.Err)
		seen++
	}

	<-done
	assert.Equal(jobs, seen, "every submitted job must report before Close returns")
}

func TestDuplicateSubmitDropped(t *testing.T) {
	t.Parallel()

	source := filepath.Join(t.TempDir(), "service.log.bak")
	require.NoError(t, os.WriteFile(source, bytes.Repeat([]byte("y"), 1<<20), 0o600))

	// With a single worker both submissions land before the first job
	// drains; one must be dropped by the in-flight guard.
	pool := compressor.New(1, nil)
	pool.Submit(compressor.Job{Source: source, Level: gzipper.DefaultLevel})
	pool.Submit(compressor.Job{Source: source, Level: gzipper.DefaultLevel})

	go pool.Close()

	results := 0
	for range pool.Results() {
		results++
	}

	assert.LessOrEqual(t, results, 2)
	assert.GreaterOrEqual(t, results, 1)
}

func TestTempName(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	name := compressor.TempName("/var/log/service.log.bak")
	assert.Regexp(`^/var/log/service\.log\.bak\.[0-9a-z]+\.gz$`, name)
}
