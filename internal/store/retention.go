package store

import (
	"fmt"
	"time"

	api "github.com/macrat/isdown/lib-isdown"
)

// Retention is the rule how long history is kept.
// The zero value is KeepForever.
type Retention struct {
	limited bool
	maxAge  time.Duration
}

var (
	// KeepForever never prunes history.
	KeepForever = Retention{}
)

// KeepFor drops records that are maxAge or more old.
func KeepFor(maxAge time.Duration) Retention {
	return Retention{limited: true, maxAge: maxAge}
}

// MaxAge returns the maximum age of records.
// ok is false for KeepForever.
func (r Retention) MaxAge() (maxAge time.Duration, ok bool) {
	return r.maxAge, r.limited
}

// IsForever reports whether this retention never prunes.
func (r Retention) IsForever() bool {
	return !r.limited
}

// Apply returns records that are newer than now - maxAge, keeping the order.
//
// Records at exactly the cutoff are dropped.
// The result of KeepForever is h as is.
func (r Retention) Apply(h api.History, now time.Time) api.History {
	if !r.limited {
		if h == nil {
			return api.History{}
		}
		return h
	}
	return h.After(now.Add(-r.maxAge))
}

// String is make Retention a string
func (r Retention) String() string {
	if !r.limited {
		return "forever"
	}
	if r.maxAge%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", r.maxAge/(24*time.Hour))
	}
	return r.maxAge.String()
}
