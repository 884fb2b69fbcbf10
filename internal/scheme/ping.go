package scheme

import (
	"bytes"
	"context"
	"net"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/macrat/go-parallel-pinger"
)

// PingOptions is the options for PingProbe.
type PingOptions struct {
	Timeout time.Duration

	// Privileged forces privileged or unprivileged ICMP socket. Nil means the platform default.
	Privileged *bool
}

// PingProbe checks the target replies to an ICMP echo request.
//
// If the ICMP socket cannot be opened, for example because of missing permission, it falls back to the system ping command.
type PingProbe struct {
	host       string
	timeout    time.Duration
	privileged *bool
	command    string
}

func NewPingProbe(host string, opts PingOptions) (PingProbe, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return PingProbe{}, ErrMissingHost
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return PingProbe{
		host:       host,
		timeout:    timeout,
		privileged: opts.Privileged,
		command:    "ping",
	}, nil
}

func (p PingProbe) Name() string {
	return "ping"
}

func (p PingProbe) Target() string {
	return p.host
}

func newPinger(target net.IP, privileged *bool) *pinger.Pinger {
	var p *pinger.Pinger
	if target.To4() != nil {
		p = pinger.NewIPv4()
	} else {
		p = pinger.NewIPv6()
	}

	if privileged != nil {
		p.SetPrivileged(*privileged)
	}

	return p
}

func pingResultToResult(r Result, result pinger.Result) Result {
	r.Latency = result.AvgRTT

	switch {
	case result.Loss == 0:
		r.OK = true
		r.Message = "all packets came back"
	case result.Recv == 0:
		r.OK = false
		r.Message = "all packets have dropped"
	default:
		r.OK = true
		r.Message = "some packets have dropped"
	}

	return r
}

func (p PingProbe) Probe(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	r := Result{
		Name:      p.Name(),
		Target:    p.host,
		CheckedAt: time.Now(),
	}

	target, err := net.ResolveIPAddr("ip", p.host)
	if err != nil {
		r.Message = errorToMessage(err)
		return timeoutOr(ctx, r)
	}

	pctx, stop := context.WithCancel(ctx)
	defer stop()

	ping := newPinger(target.IP, p.privileged)
	if err := startPinger(pctx, ping); err != nil {
		return p.systemPing(ctx, r)
	}

	r.CheckedAt = time.Now()
	result, err := ping.Ping(ctx, target, 1, time.Second)
	if err != nil {
		r.Message = err.Error()
		r.Latency = time.Since(r.CheckedAt)
		return timeoutOr(ctx, r)
	}

	return timeoutOr(ctx, pingResultToResult(r, result))
}

func systemPingArgs(goos, host string) []string {
	if goos == "windows" {
		return []string{"-n", "1", host}
	}
	return []string{"-c", "1", host}
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n")))), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func (p PingProbe) systemPing(ctx context.Context, r Result) Result {
	cmd := exec.CommandContext(ctx, p.command, systemPingArgs(runtime.GOOS, p.host)...)

	r.CheckedAt = time.Now()
	out, err := cmd.CombinedOutput()
	r.Latency = time.Since(r.CheckedAt)

	if err != nil {
		r.OK = false
		if msg := lastLine(out); msg != "" {
			r.Message = p.command + " command: " + msg
		} else {
			r.Message = p.command + " command: " + err.Error()
		}
	} else {
		r.OK = true
		r.Message = p.command + " command: succeeded"
	}

	return timeoutOr(ctx, r)
}
