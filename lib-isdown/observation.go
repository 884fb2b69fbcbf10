package isdown

import (
	"time"

	"github.com/goccy/go-json"
)

// Observation is the result of a single check cycle.
type Observation struct {
	// Timestamp is the time the check ran, in UTC.
	Timestamp time.Time

	HTTPUp bool
	SSHUp  bool

	// PingUp is nil for records written before the ping check existed.
	// Use CompositeStatus or Ping to resolve it.
	PingUp *bool
}

// NewObservation makes an Observation with all three signals set.
// The timestamp is normalized to UTC.
func NewObservation(t time.Time, httpUp, sshUp, pingUp bool) Observation {
	return Observation{
		Timestamp: t.UTC(),
		HTTPUp:    httpUp,
		SSHUp:     sshUp,
		PingUp:    &pingUp,
	}
}

// MissingPingPolicy decides how an absent ping_up field is counted.
type MissingPingPolicy int8

const (
	// FailSafe treats an absent ping result as down.
	// It is used for the current status, so an unknown signal never shows as ONLINE.
	FailSafe MissingPingPolicy = iota

	// FailOpen treats an absent ping result as up.
	// It is used for windowed uptime, so records that predate the ping check
	// do not lower historical uptime.
	FailOpen
)

// String is make MissingPingPolicy a string
func (p MissingPingPolicy) String() string {
	switch p {
	case FailOpen:
		return "FAIL_OPEN"
	default:
		return "FAIL_SAFE"
	}
}

// HasPing reports whether the record carries a ping result.
func (o Observation) HasPing() bool {
	return o.PingUp != nil
}

// Ping resolves the ping result with the given policy.
func (o Observation) Ping(p MissingPingPolicy) bool {
	if o.PingUp == nil {
		return p == FailOpen
	}
	return *o.PingUp
}

// CompositeStatus reports whether the observation is fully up, that is, all of
// HTTP, SSH, and ping succeeded.
//
// The same record can give different answers under FailSafe and FailOpen if
// it has no ping result. That difference is intentional.
func CompositeStatus(o Observation, p MissingPingPolicy) bool {
	return o.HTTPUp && o.SSHUp && o.Ping(p)
}

type jsonObservation struct {
	Timestamp string `json:"timestamp"`
	HTTPUp    bool   `json:"http_up"`
	SSHUp     bool   `json:"ssh_up"`
	PingUp    *bool  `json:"ping_up,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (o Observation) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonObservation{
		Timestamp: o.Timestamp.UTC().Format(time.RFC3339Nano),
		HTTPUp:    o.HTTPUp,
		SSHUp:     o.SSHUp,
		PingUp:    o.PingUp,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// Missing http_up and ssh_up are read as false, and missing ping_up is kept as nil.
func (o *Observation) UnmarshalJSON(data []byte) error {
	var raw jsonObservation
	if err := json.Unmarshal(data, &raw); err != nil {
		return invalidObservation(err)
	}

	if raw.Timestamp == "" {
		return ErrMissingTimestamp
	}

	t, err := ParseTime(raw.Timestamp)
	if err != nil {
		return invalidObservation(err)
	}

	*o = Observation{
		Timestamp: t.UTC(),
		HTTPUp:    raw.HTTPUp,
		SSHUp:     raw.SSHUp,
		PingUp:    raw.PingUp,
	}
	return nil
}
