package bakfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/baklog/bakfile"
	"golift.io/baklog/filer"
)

func touch(t *testing.T, path string, modified time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	if !modified.IsZero() {
		require.NoError(t, os.Chtimes(path, modified, modified))
	}
}

func TestNextSequence(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var (
		fs   = filer.Default()
		base = filepath.Join(t.TempDir(), "service.log")
		seen = map[string]struct{}{}
	)

	// Creating each returned name must always yield a fresh one.
	for i := 0; i < 25; i++ {
		name := bakfile.Next(fs, base, false)

		_, dup := seen[name]
		assert.Falsef(dup, "name %q was returned twice", name)
		seen[name] = struct{}{}

		touch(t, name, time.Time{})
	}

	assert.Len(seen, 25)
	assert.Contains(seen, base+".bak", "the first backup carries the bare suffix")
	assert.Contains(seen, base+".bak24")
}

func TestNextForms(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var (
		fs   = filer.Default()
		base = filepath.Join(t.TempDir(), "service.log")
	)

	assert.Equal(base+".bak", bakfile.Next(fs, base, false))
	assert.Equal(base+".bak.gz", bakfile.Next(fs, base, true))

	touch(t, base+".bak", time.Time{})
	touch(t, base+".bak.gz", time.Time{})

	assert.Equal(base+".bak1", bakfile.Next(fs, base, false))
	assert.Equal(base+".bak1.gz", bakfile.Next(fs, base, true))
}

func TestNextGap(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var (
		fs   = filer.Default()
		base = filepath.Join(t.TempDir(), "service.log")
	)

	touch(t, base+".bak", time.Time{})
	touch(t, base+".bak1", time.Time{})
	touch(t, base+".bak3", time.Time{})

	// The probe starts from the un-numbered form and stops at the first
	// free path, landing in the gap. Nothing is renumbered.
	assert.Equal(base+".bak2", bakfile.Next(fs, base, false))
}

func TestListFiltersAndSorts(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var (
		fs   = filer.Default()
		base = filepath.Join(t.TempDir(), "service.log")
		now  = time.Now()
	)

	touch(t, base, now) // the active file is not a backup.
	touch(t, base+".bak", now.Add(-time.Hour))
	touch(t, base+".bak1", now.Add(-3*time.Hour))
	touch(t, base+".bak2.gz", now.Add(-2*time.Hour))
	touch(t, base+".bakxyz", now) // not a numeric suffix.

	files := bakfile.List(fs, base, false)
	assert.Equal([]string{base + ".bak1", base + ".bak"}, files.Paths,
		"uncompressed listing must sort oldest first and skip compressed files")

	files = bakfile.List(fs, base, true)
	assert.Equal([]string{base + ".bak2.gz"}, files.Paths)
}

func TestSweep(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var (
		fs   = filer.Default()
		base = filepath.Join(t.TempDir(), "service.log")
		now  = time.Now()
	)

	const threshold = 30 * 24 * time.Hour

	days := func(n int) time.Time { return now.Add(-time.Duration(n) * 24 * time.Hour) }

	touch(t, base+".bak", days(40))
	touch(t, base+".bak1", days(20))
	touch(t, base+".bak2", days(5))

	removed, err := bakfile.Sweep(fs, base, false, func(modified time.Time) bool {
		return now.Sub(modified) >= threshold
	})
	assert.NoError(err)
	assert.Equal(1, removed, "only the 40 day old backup is past the threshold")

	_, err = os.Stat(base + ".bak")
	assert.True(os.IsNotExist(err), "the obsolete backup must be gone")
	_, err = os.Stat(base + ".bak1")
	assert.NoError(err)
	_, err = os.Stat(base + ".bak2")
	assert.NoError(err)
}

func TestSweepStopsAtFirstKept(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var (
		fs   = filer.Default()
		base = filepath.Join(t.TempDir(), "service.log")
		now  = time.Now()
	)

	// The scan walks oldest first and stops at the first kept entry,
	// even when the predicate would flag a later file.
	touch(t, base+".bak", now.Add(-10*24*time.Hour))
	touch(t, base+".bak1", now.Add(-5*24*time.Hour))
	touch(t, base+".bak2", now.Add(-3*24*time.Hour))

	calls := 0
	removed, err := bakfile.Sweep(fs, base, false, func(modified time.Time) bool {
		calls++

		return now.Sub(modified) >= 7*24*time.Hour
	})
	assert.NoError(err)
	assert.Equal(1, removed)
	assert.Equal(2, calls, "the scan must not continue past the first kept entry")
}

func TestSweepEmptyDir(t *testing.T) {
	t.Parallel()

	removed, err := bakfile.Sweep(filer.Default(), filepath.Join(t.TempDir(), "service.log"), false,
		func(time.Time) bool { return true })
	assert.NoError(t, err)
	assert.Zero(t, removed)
}
