package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/macrat/isdown/internal/monitor"
)

var errDown = errors.New("the host is down")

func (cmd *IsdownCommand) RunCheck(ctx context.Context, m *monitor.Monitor) (exitCode int) {
	result, err := m.RunCycle(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", err)
		return 1
	}

	o := result.Outcome
	fmt.Fprintf(cmd.OutStream, "Check complete. HTTP: %t, SSH: %t, Ping: %t\n", o.HTTP.OK, o.SSH.OK, o.Ping.OK)

	if cmd.Config.FailOnDown && !result.Summary.Up {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", errDown)
		return 1
	}

	return 0
}

func (cmd *IsdownCommand) RunRender(ctx context.Context, m *monitor.Monitor) (exitCode int) {
	s, err := m.Render(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", err)
		return 1
	}

	status := "DOWN"
	if s.Up {
		status = "ONLINE"
	}
	for _, o := range cmd.Config.Outputs() {
		fmt.Fprintf(cmd.OutStream, "Rendered %s: %s\n", o.Path, status)
	}

	if cmd.Config.FailOnDown && !s.Up {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", errDown)
		return 1
	}

	return 0
}
