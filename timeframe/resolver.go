// Package timeframe resolves named reporting timeframes into concrete
// date ranges. Everything here is pure: same inputs, same range.
package timeframe

import (
	"fmt"
	"time"
)

const (
	CurrentMonth  = "CM"
	PreviousMonth = "PM"
	YearToDate    = "YTD"
	Last7Days     = "L7"
	Last30Days    = "L30"
)

// ErrInvalidTimeframe is returned for unrecognized timeframe names.
// Unknown names never silently default.
type ErrInvalidTimeframe struct {
	Name string
}

func (e ErrInvalidTimeframe) Error() string {
	return fmt.Sprintf("invalid timeframe: %q", e.Name)
}

// Resolve maps a timeframe name and reference date to a (start, end) pair.
// A zero reference defaults to the current date. PM is the only static
// timeframe: it always covers the fully-elapsed prior calendar month, so it
// is stable no matter when within the following month the computation runs.
func Resolve(name string, reference time.Time) (time.Time, time.Time, error) {
	if reference.IsZero() {
		reference = time.Now()
	}
	ref := truncate(reference)

	switch name {
	case CurrentMonth:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, ref, nil
	case PreviousMonth:
		firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		end := firstOfMonth.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, end, nil
	case YearToDate:
		start := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, ref.Location())
		return start, ref, nil
	case Last7Days:
		return ref.AddDate(0, 0, -7), ref, nil
	case Last30Days:
		return ref.AddDate(0, 0, -30), ref, nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidTimeframe{Name: name}
	}
}

// DaysBetween returns d2 - d1 in whole days, ignoring time of day.
func DaysBetween(d1, d2 time.Time) int {
	return int(truncate(d2).Sub(truncate(d1)).Hours() / 24)
}

// truncate rebuilds a timestamp as UTC midnight of its calendar date.
// Day arithmetic must not depend on wall-clock locations: sources emit UTC
// dates while references are host-local, and subtracting location-local
// midnights miscounts across zone offsets and DST transitions.
func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWithinDays reports whether target falls within the next n days of
// reference, future-only: 0 <= target-reference <= n.
func IsWithinDays(target, reference time.Time, n int) bool {
	d := DaysBetween(reference, target)
	return d >= 0 && d <= n
}

// IsInPeriod reports whether target falls in [start, end], inclusive both
// ends.
func IsInPeriod(target, start, end time.Time) bool {
	t := truncate(target)
	return !t.Before(truncate(start)) && !t.After(truncate(end))
}
