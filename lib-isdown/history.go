package isdown

import (
	"time"

	"github.com/goccy/go-json"
)

// History is a sequence of Observations in the order they were recorded.
//
// Records are appended one per check cycle, so the order is also chronological.
// Duplicate timestamps are allowed.
type History []Observation

// Latest returns the most recent observation.
func (h History) Latest() (Observation, bool) {
	if len(h) == 0 {
		return Observation{}, false
	}
	return h[len(h)-1], true
}

// First returns the oldest observation.
func (h History) First() (Observation, bool) {
	if len(h) == 0 {
		return Observation{}, false
	}
	return h[0], true
}

// Append returns a new History with o at the end.
// The receiver is never modified.
func (h History) Append(o Observation) History {
	r := make(History, len(h), len(h)+1)
	copy(r, h)
	return append(r, o)
}

// After returns the observations that were recorded strictly after t, keeping the order.
func (h History) After(t time.Time) History {
	r := make(History, 0, len(h))
	for _, o := range h {
		if o.Timestamp.After(t) {
			r = append(r, o)
		}
	}
	return r
}

// UnmarshalJSON implements json.Unmarshaler.
// A JSON null is read as an empty history.
func (h *History) UnmarshalJSON(data []byte) error {
	var xs []Observation
	if err := json.Unmarshal(data, &xs); err != nil {
		return err
	}
	if xs == nil {
		xs = History{}
	}
	*h = xs
	return nil
}
