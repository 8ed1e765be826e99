// Package retention decides when a log file has outlived its configured age.
// The age is expressed as a quantity of calendar units; adding months or
// years follows real calendar arithmetic (month rollover, leap years), not
// a fixed number of days.
package retention

import "time"

// Unit is the calendar unit a retention age is counted in.
type Unit uint8

// The supported calendar units.
const (
	Days Unit = iota
	Months
	Years
)

// String returns a human-readable unit name.
func (u Unit) String() string {
	switch u {
	case Days:
		return "days"
	case Months:
		return "months"
	case Years:
		return "years"
	default:
		return "unknown"
	}
}

// Obsolete reports whether a file last modified at the given time has
// exceeded the retention age. The expiry instant is modified + age units,
// computed with time.AddDate, and the file is obsolete once that instant
// is at or before now. An unknown unit is treated as Years, the most
// conservative choice.
func Obsolete(modified time.Time, unit Unit, age int, now time.Time) bool {
	var expires time.Time

	switch unit {
	case Days:
		expires = modified.AddDate(0, 0, age)
	case Months:
		expires = modified.AddDate(0, age, 0)
	default:
		expires = modified.AddDate(age, 0, 0)
	}

	return !expires.After(now)
}
