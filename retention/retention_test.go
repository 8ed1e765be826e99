package retention_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golift.io/baklog/retention"
)

func TestObsoleteDays(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	modified := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	assert.False(retention.Obsolete(modified, retention.Days, 30, modified.AddDate(0, 0, 29)),
		"a 29 day old file must not be obsolete under a 30 day policy")
	assert.True(retention.Obsolete(modified, retention.Days, 30, modified.AddDate(0, 0, 30)),
		"the expiry instant itself counts as obsolete")
	assert.True(retention.Obsolete(modified, retention.Days, 30, modified.AddDate(0, 0, 31)))
}

func TestObsoleteMonths(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	// Jan 31 + 1 month normalizes past the end of February.
	modified := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	expires := modified.AddDate(0, 1, 0) // March 3rd, 2025.

	assert.Equal(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), expires)
	assert.False(retention.Obsolete(modified, retention.Months, 1, expires.Add(-time.Second)))
	assert.True(retention.Obsolete(modified, retention.Months, 1, expires))
}

func TestObsoleteYears(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	// Feb 29 on a leap year lands on Mar 1 of the following non-leap year.
	modified := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	expires := modified.AddDate(1, 0, 0)

	assert.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), expires)
	assert.True(retention.Obsolete(modified, retention.Years, 1, expires))
	assert.False(retention.Obsolete(modified, retention.Years, 1, expires.Add(-time.Hour)))
}

func TestObsoleteZeroAge(t *testing.T) {
	t.Parallel()

	now := time.Now()
	assert.True(t, retention.Obsolete(now.Add(-time.Second), retention.Days, 0, now),
		"age 0 makes any past file obsolete immediately")
}

func TestUnitString(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	assert.Equal("days", retention.Days.String())
	assert.Equal("months", retention.Months.String())
	assert.Equal("years", retention.Years.String())
	assert.Equal("unknown", retention.Unit(99).String())
}
