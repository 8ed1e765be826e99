package baklog

import (
	"sync"

	"golift.io/baklog/retention"
)

// DefaultMaxSize is the rotation threshold used by NewSettings.
const DefaultMaxSize = 10 * 1024 * 1024

// Settings is a mutex-guarded Policy whose values may be changed at runtime.
// Every change takes effect on the next append, rotation or path change;
// files already on disk are not re-evaluated.
type Settings struct {
	mu        sync.RWMutex
	maxSize   int64
	backup    bool
	compress  bool
	deleteOld bool
	age       int
	ageUnit   retention.Unit
}

// NewSettings returns a Policy with sane defaults: rotate at DefaultMaxSize,
// keep backups uncompressed, and delete backups older than one month.
func NewSettings() *Settings {
	return &Settings{
		maxSize:   DefaultMaxSize,
		backup:    true,
		deleteOld: true,
		age:       1,
		ageUnit:   retention.Months,
	}
}

// MaxSize returns the rotation threshold in bytes.
func (s *Settings) MaxSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.maxSize
}

// SetMaxSize changes the rotation threshold.
func (s *Settings) SetMaxSize(size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxSize = size
}

// Backup reports whether rotation keeps the old file as a backup.
func (s *Settings) Backup() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.backup
}

// SetBackup toggles backup creation on rotation.
func (s *Settings) SetBackup(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.backup = enabled
}

// Compress reports whether rotated backups are compressed.
func (s *Settings) Compress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.compress
}

// SetCompress toggles compression of rotated backups.
func (s *Settings) SetCompress(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.compress = enabled
}

// DeleteOld reports whether obsolete backups are swept on append.
func (s *Settings) DeleteOld() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.deleteOld
}

// SetDeleteOld toggles the obsolete-backup sweep.
func (s *Settings) SetDeleteOld(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteOld = enabled
}

// Age returns the retention age as a quantity of calendar units.
func (s *Settings) Age() (int, retention.Unit) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.age, s.ageUnit
}

// SetAge changes the retention age. Negative quantities are clamped to zero.
func (s *Settings) SetAge(quantity int, unit retention.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 0 {
		quantity = 0
	}

	s.age = quantity
	s.ageUnit = unit
}

// Our settings must satisfy the Policy interface.
var _ Policy = (*Settings)(nil)
