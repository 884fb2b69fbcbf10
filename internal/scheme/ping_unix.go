//go:build linux || darwin
// +build linux darwin

package scheme

import (
	"context"

	"github.com/macrat/go-parallel-pinger"
)

func startPinger(ctx context.Context, p *pinger.Pinger) error {
	if err := p.Start(ctx); err == nil {
		return nil
	}

	p.SetPrivileged(!pinger.DEFAULT_PRIVILEGED)

	return p.Start(ctx)
}
