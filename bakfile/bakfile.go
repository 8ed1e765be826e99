// Package bakfile names and enumerates rotated backup log files.
// Backups of a log file live next to it and carry an incrementing suffix:
// file.log.bak, file.log.bak1, file.log.bak2 and so on, with a trailing
// .gz when compressed. Naming always probes from the un-numbered form for
// the first path that does not exist, so a name is never reused while its
// file remains on disk, and gaps in the sequence are never filled.
package bakfile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golift.io/baklog/filer"
)

// Suffixes appended to a log file name to form backup names.
const (
	SuffixBak = ".bak"
	SuffixGZ  = ".gz"
)

// Next returns the next unused backup path for base, probing the existence
// of each candidate on disk at call time. The caller performs the rename.
// A free name always exists given enough probes; running out of integers
// is a filesystem anomaly, not something this function guards against.
func Next(fs filer.Filer, base string, compressed bool) string {
	for i := 0; ; i++ {
		name := base + SuffixBak
		if i > 0 {
			name += strconv.Itoa(i)
		}

		if compressed {
			name += SuffixGZ
		}

		if _, err := fs.Stat(name); err != nil {
			return name
		}
	}
}

// List finds the backups of base matching the given suffix convention and
// returns them sorted oldest-first by modification time.
func List(fs filer.Filer, base string, compressed bool) *Files {
	var (
		dir    = filepath.Dir(base)
		prefix = filepath.Base(base) + SuffixBak
		list   = &Files{Paths: []string{}, value: []time.Time{}}
	)

	entries, err := fs.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		return list
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue // not our file.
		}

		part := strings.TrimPrefix(name, prefix)

		if compressed {
			if !strings.HasSuffix(part, SuffixGZ) {
				continue
			}

			part = strings.TrimSuffix(part, SuffixGZ)
		} else if strings.HasSuffix(part, SuffixGZ) {
			continue
		}

		if _, err := strconv.Atoi(part); err == nil || part == "" {
			list.Paths = append(list.Paths, filepath.Join(dir, name))
			list.value = append(list.value, entry.ModTime())
		}
	}

	sort.Sort(list)

	return list
}

// Sweep deletes obsolete backups of base, oldest first, stopping at the
// first entry the policy keeps. Returns how many files were removed.
// Because the scan stops at the first kept entry, an older file whose
// modification time sorts after a younger one survives the sweep; ordering
// by modification time is assumed, not enforced.
func Sweep(fs filer.Filer, base string, compressed bool, obsolete func(modified time.Time) bool) (int, error) {
	var (
		files   = List(fs, base, compressed)
		removed = 0
	)

	for idx := range files.Paths {
		if !obsolete(files.value[idx]) {
			break
		}

		if err := fs.Remove(files.Paths[idx]); err != nil {
			return removed, fmt.Errorf("removing old backup: %w", err)
		}

		removed++
	}

	return removed, nil
}
