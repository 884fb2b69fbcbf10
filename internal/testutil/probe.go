package testutil

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/macrat/isdown/internal/scheme"
)

// FakeProber is a scheme.Prober that returns a fixed result.
type FakeProber struct {
	ProbeName string
	OK        bool
	Message   string

	calls atomic.Int32
}

func NewFakeProber(name string, ok bool) *FakeProber {
	msg := "fake success"
	if !ok {
		msg = "fake failure"
	}
	return &FakeProber{ProbeName: name, OK: ok, Message: msg}
}

func (p *FakeProber) Name() string {
	return p.ProbeName
}

func (p *FakeProber) Target() string {
	return "fake:" + p.ProbeName
}

func (p *FakeProber) Probe(ctx context.Context) scheme.Result {
	p.calls.Add(1)
	return scheme.Result{
		Name:      p.ProbeName,
		Target:    p.Target(),
		OK:        p.OK,
		Latency:   time.Millisecond,
		Message:   p.Message,
		CheckedAt: BaseTime,
	}
}

// Calls returns how many times Probe was called.
func (p *FakeProber) Calls() int {
	return int(p.calls.Load())
}

// FakeProbeSet makes a scheme.ProbeSet of FakeProbers.
func FakeProbeSet(httpOK, sshOK, pingOK bool) scheme.ProbeSet {
	return scheme.ProbeSet{
		HTTP: NewFakeProber("http", httpOK),
		SSH:  NewFakeProber("ssh", sshOK),
		Ping: NewFakeProber("ping", pingOK),
	}
}
