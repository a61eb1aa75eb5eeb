// Package clock provides an injectable time source so day-boundary logic
// is testable with fixed clocks.
package clock

import "time"

// DayKeyLayout formats a UTC date as "YYYY-M-D" without zero padding.
// Every per-day key in the system (shop, claims, draw pot) uses this layout,
// so the same calendar day always maps to the same key across processes.
const DayKeyLayout = "2006-1-2"

// Clock supplies the current instant. All core operations derive the
// current UTC day from it instead of reading time.Now directly.
type Clock interface {
	Now() time.Time
}

// DayKey returns the UTC day key for t.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyLayout)
}

// NextMidnight returns the next UTC midnight strictly after t.
// Used as nextEligibleAt for rejected daily claims.
func NextMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}

// Real reads the system clock.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time { return time.Now() }

// Fixed always reports the same instant. For tests.
type Fixed struct {
	T time.Time
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return f.T }
