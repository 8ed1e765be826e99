package bakfile

import (
	"sort"
	"time"
)

// Files is a list of backup paths paired with their modification times.
type Files struct {
	Paths []string
	value []time.Time
}

// Len is part of sort.Interface.
func (f *Files) Len() int {
	return len(f.Paths)
}

// Swap is part of sort.Interface. We track two slices, so swap them both!
func (f *Files) Swap(i, j int) {
	f.Paths[i], f.Paths[j] = f.Paths[j], f.Paths[i]
	f.value[i], f.value[j] = f.value[j], f.value[i]
}

// Less is part of sort.Interface.
// The files are sorted by modification time, oldest first.
func (f *Files) Less(i, j int) bool {
	return f.value[i].Before(f.value[j])
}

// ModTime returns the modification time recorded for the idx'th path.
func (f *Files) ModTime(idx int) time.Time {
	return f.value[idx]
}

// Our Files list must satisfy a sort.Interface.
var _ sort.Interface = (*Files)(nil)
