package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/macrat/isdown/internal/monitor"
)

func (cmd *IsdownCommand) RunProbe(ctx context.Context, m *monitor.Monitor) (exitCode int) {
	fmt.Fprintf(cmd.OutStream, "Checking status for %s...\n", cmd.Config.Host)
	fmt.Fprintf(cmd.OutStream, "URL: %s\n", cmd.Config.URL)
	fmt.Fprintf(cmd.OutStream, "SSH: %s:%d\n", cmd.Config.Host, cmd.Config.SSHPort)
	fmt.Fprintln(cmd.OutStream, strings.Repeat("-", 30))

	o := m.Probe(ctx)

	for _, r := range []struct {
		Label string
		OK    bool
	}{
		{"HTTP", o.HTTP.OK},
		{"SSH", o.SSH.OK},
		{"Ping", o.Ping.OK},
	} {
		mark := "✅ UP"
		if !r.OK {
			mark = "❌ DOWN"
		}
		fmt.Fprintf(cmd.OutStream, "Checking %s... %s\n", r.Label, mark)
	}

	if !o.AllOK() {
		return 1
	}
	return 0
}
