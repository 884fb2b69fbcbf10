package scheme

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"
)

// TCPProbe checks a TCP port of the target accepts connections.
// It is used for the SSH port; no protocol is spoken after the connection.
type TCPProbe struct {
	name    string
	address string
	timeout time.Duration
}

func NewTCPProbe(name, host string, port int, timeout time.Duration) (TCPProbe, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return TCPProbe{}, ErrMissingHost
	}
	if port <= 0 || port > 65535 {
		return TCPProbe{}, ErrInvalidPort
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return TCPProbe{
		name:    name,
		address: net.JoinHostPort(host, strconv.Itoa(port)),
		timeout: timeout,
	}, nil
}

func (p TCPProbe) Name() string {
	return p.name
}

func (p TCPProbe) Target() string {
	return p.address
}

func (p TCPProbe) Probe(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var dialer net.Dialer

	st := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	d := time.Since(st)

	r := Result{
		Name:      p.name,
		Target:    p.address,
		CheckedAt: st,
		Latency:   d,
	}

	if err != nil {
		r.Message = errorToMessage(err)
	} else {
		r.OK = true
		r.Message = "source=" + conn.LocalAddr().String() + " target=" + conn.RemoteAddr().String()
		conn.Close()
	}

	return timeoutOr(ctx, r)
}
