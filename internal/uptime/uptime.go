// Package uptime calculates current status and uptime percentages from history.
//
// Everything in this package is pure; the caller passes the current time.
package uptime

import (
	"time"

	api "github.com/macrat/isdown/lib-isdown"
)

// Window is a trailing time span for uptime calculation.
type Window struct {
	Label    string
	Duration time.Duration
}

var (
	Day   = Window{"24h", 24 * time.Hour}
	Week  = Window{"7d", 7 * 24 * time.Hour}
	Month = Window{"30d", 30 * 24 * time.Hour}

	// DefaultWindows are the windows on the status page.
	DefaultWindows = []Window{Day, Week, Month}
)

// Uptime returns the percentage of fully up observations in the window, in [0, 100].
//
// Observations later than now - window are counted. The missing ping result of old records counts as up.
// It returns 100 if there is no observation in the window, so that the first run does not show 0%.
func Uptime(h api.History, window time.Duration, now time.Time) float64 {
	if len(h) == 0 {
		return 100.0
	}

	cutoff := now.Add(-window)

	var total, up int
	for _, o := range h {
		if !o.Timestamp.After(cutoff) {
			continue
		}
		total++
		if api.CompositeStatus(o, api.FailOpen) {
			up++
		}
	}

	if total == 0 {
		return 100.0
	}

	return 100 * float64(up) / float64(total)
}

// WindowUptime is the uptime of a Window.
type WindowUptime struct {
	Window  Window
	Percent float64
}

// Checks is the result of each check in the latest observation.
type Checks struct {
	HTTP bool
	SSH  bool
	Ping bool
}

// Summary is the status of the host calculated from history.
type Summary struct {
	// HasData is false if there is no observation yet.
	HasData bool

	// Up is the composite status of the latest observation.
	// The missing ping result counts as down.
	Up bool

	// Checks is the result of each check in the latest observation, with the same rule as Up.
	Checks Checks

	Uptimes []WindowUptime

	// LastChecked is the time of the latest observation. It is zero if HasData is false.
	LastChecked time.Time

	// FirstRecorded is the time of the oldest observation. It is zero if HasData is false.
	FirstRecorded time.Time

	Observations int
	GeneratedAt  time.Time
}

// Current returns the composite status of the latest observation.
// It is false for an empty history.
func Current(h api.History) (up bool, checks Checks) {
	latest, ok := h.Latest()
	if !ok {
		return false, Checks{}
	}

	return api.CompositeStatus(latest, api.FailSafe), Checks{
		HTTP: latest.HTTPUp,
		SSH:  latest.SSHUp,
		Ping: latest.Ping(api.FailSafe),
	}
}

// Summarize calculates Summary.
func Summarize(h api.History, windows []Window, now time.Time) Summary {
	s := Summary{
		Uptimes:      make([]WindowUptime, len(windows)),
		Observations: len(h),
		GeneratedAt:  now,
	}

	s.Up, s.Checks = Current(h)

	if latest, ok := h.Latest(); ok {
		s.HasData = true
		s.LastChecked = latest.Timestamp
	}
	if first, ok := h.First(); ok {
		s.FirstRecorded = first.Timestamp
	}

	for i, w := range windows {
		s.Uptimes[i] = WindowUptime{
			Window:  w,
			Percent: Uptime(h, w.Duration, now),
		}
	}

	return s
}
