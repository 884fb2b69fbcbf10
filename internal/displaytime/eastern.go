// Package displaytime converts timestamps to North American Eastern time for display.
//
// This is an approximation. DST changes at 00:00 UTC of the transition days instead of at 02:00 local time,
// and the rule is the one in effect since 2007. It is only used for the "last checked" line of the status
// page, so a few hours of error around the transitions is accepted. Stored timestamps are always UTC.
package displaytime

import (
	"time"
)

var (
	EDT = time.FixedZone("EDT", -4*60*60)
	EST = time.FixedZone("EST", -5*60*60)
)

func firstSundayFrom(year int, month time.Month, day int) time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// DSTStart returns the start of DST of the year, which is the second Sunday of March at 00:00 UTC.
func DSTStart(year int) time.Time {
	return firstSundayFrom(year, time.March, 8)
}

// DSTEnd returns the end of DST of the year, which is the first Sunday of November at 00:00 UTC.
func DSTEnd(year int) time.Time {
	return firstSundayFrom(year, time.November, 1)
}

// IsDST reports whether t is in DST.
// The start is inclusive and the end is exclusive.
func IsDST(t time.Time) bool {
	t = t.UTC()
	return !t.Before(DSTStart(t.Year())) && t.Before(DSTEnd(t.Year()))
}

// Eastern converts t to Eastern time, with a zone named EDT or EST.
func Eastern(t time.Time) time.Time {
	if IsDST(t) {
		return t.In(EDT)
	}
	return t.In(EST)
}
