// Package scheme implements the liveness probes.
package scheme

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	api "github.com/macrat/isdown/lib-isdown"
)

var (
	ErrMissingHost = errors.New("missing target host")
	ErrInvalidPort = errors.New("invalid port number")
)

// Result is the result of a probe.
type Result struct {
	Name      string
	Target    string
	OK        bool
	Latency   time.Duration
	Message   string
	CheckedAt time.Time
}

// Prober is the interface to check a signal of the target is alive.
//
// Probe never returns an error. Any failure, including a timeout, is reported as a Result with OK == false.
type Prober interface {
	// Name returns the name of the signal, like "http".
	Name() string

	// Target returns a human readable target of the probe.
	Target() string

	Probe(context.Context) Result
}

func timeoutOr(ctx context.Context, r Result) Result {
	switch ctx.Err() {
	case context.Canceled:
		r.OK = false
		r.Message = "probe aborted"
	case context.DeadlineExceeded:
		r.OK = false
		r.Message = "probe timed out"
	default:
	}
	return r
}

func dnsErrorToMessage(err *net.DNSError) string {
	msg := err.Error()
	if err.IsNotFound {
		msg = "lookup " + err.Name + ": not found"
	}
	if err.Server != "" {
		msg += " on " + err.Server
	}
	return msg
}

func errorToMessage(err error) string {
	dnsErr := &net.DNSError{}
	opErr := &net.OpError{}

	if errors.As(err, &dnsErr) {
		return dnsErrorToMessage(dnsErr)
	} else if errors.As(err, &opErr) && opErr.Op == "dial" && opErr.Addr != nil {
		return opErr.Addr.String() + ": connection refused"
	}
	return err.Error()
}

// Outcome is the set of Results of a ProbeSet.
type Outcome struct {
	HTTP Result
	SSH  Result
	Ping Result
}

// Results returns the results in the display order.
func (o Outcome) Results() []Result {
	return []Result{o.HTTP, o.SSH, o.Ping}
}

// AllOK reports whether all probes succeeded.
func (o Outcome) AllOK() bool {
	return o.HTTP.OK && o.SSH.OK && o.Ping.OK
}

// Observation makes an Observation at t from the outcome.
func (o Outcome) Observation(t time.Time) api.Observation {
	return api.NewObservation(t, o.HTTP.OK, o.SSH.OK, o.Ping.OK)
}

// ProbeSet is the three probes of a host.
type ProbeSet struct {
	HTTP Prober
	SSH  Prober
	Ping Prober
}

// Run runs all probes concurrently, and waits for all of them.
func (ps ProbeSet) Run(ctx context.Context) Outcome {
	var o Outcome
	var wg sync.WaitGroup

	run := func(p Prober, r *Result) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			*r = p.Probe(ctx)
		}()
	}

	run(ps.HTTP, &o.HTTP)
	run(ps.SSH, &o.SSH)
	run(ps.Ping, &o.Ping)

	wg.Wait()

	return o
}
