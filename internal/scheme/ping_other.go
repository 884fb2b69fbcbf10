//go:build !linux && !darwin
// +build !linux,!darwin

package scheme

import (
	"context"

	"github.com/macrat/go-parallel-pinger"
)

func startPinger(ctx context.Context, p *pinger.Pinger) error {
	return p.Start(ctx)
}
