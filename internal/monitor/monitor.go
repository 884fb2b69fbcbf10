// Package monitor runs a check cycle: probe, record, and render.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/macrat/isdown/internal/config"
	"github.com/macrat/isdown/internal/isdownerr"
	"github.com/macrat/isdown/internal/meta"
	"github.com/macrat/isdown/internal/report"
	"github.com/macrat/isdown/internal/scheme"
	"github.com/macrat/isdown/internal/store"
	"github.com/macrat/isdown/internal/uptime"
	api "github.com/macrat/isdown/lib-isdown"
	"go.uber.org/zap"
)

// ErrAborted is returned when a check cycle is interrupted while probing.
var ErrAborted = errors.New("check aborted")

// NewProbeSet makes the probes of the target in cfg.
func NewProbeSet(cfg config.Config) (scheme.ProbeSet, error) {
	h, err := scheme.NewHTTPProbe(cfg.URL, scheme.HTTPOptions{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: meta.UserAgent(),
		TLSVerify: cfg.TLSVerify,
	})
	if err != nil {
		return scheme.ProbeSet{}, err
	}

	s, err := scheme.NewTCPProbe("ssh", cfg.Host, cfg.SSHPort, cfg.SSHTimeout)
	if err != nil {
		return scheme.ProbeSet{}, err
	}

	p, err := scheme.NewPingProbe(cfg.Host, scheme.PingOptions{
		Timeout:    cfg.PingTimeout,
		Privileged: cfg.PingPrivileged,
	})
	if err != nil {
		return scheme.ProbeSet{}, err
	}

	return scheme.ProbeSet{HTTP: h, SSH: s, Ping: p}, nil
}

// Monitor is the check cycle of a host.
type Monitor struct {
	cfg    config.Config
	store  *store.Store
	probes scheme.ProbeSet
	logger *zap.Logger
	now    func() time.Time
}

// Option is an option for New.
type Option func(*Monitor)

// WithClock replaces the clock. It is for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New creates a Monitor.
func New(cfg config.Config, probes scheme.ProbeSet, logger *zap.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:    cfg,
		store:  store.New(cfg.History),
		probes: probes,
		logger: logger,
		now:    time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// CycleResult is the result of RunCycle.
type CycleResult struct {
	RunID       string
	Outcome     scheme.Outcome
	Observation api.Observation
	Summary     uptime.Summary

	// Pruned is the number of records dropped by retention.
	Pruned int
}

func (m *Monitor) runLogger() (string, *zap.Logger) {
	id := uuid.NewString()
	return id, m.logger.With(zap.String("run_id", id))
}

func (m *Monitor) release(logger *zap.Logger, unlock func() error) {
	if err := unlock(); err != nil {
		logger.Debug("failed to unlock history file", zap.String("path", m.store.Path()), zap.Error(err))
	}
}

func (m *Monitor) load(logger *zap.Logger) (api.History, error) {
	lr := m.store.Load()
	logger.Debug("history loaded", zap.String("path", m.store.Path()), zap.Stringer("state", lr.State), zap.Int("records", len(lr.Records)))

	h, err := lr.History()
	if err != nil {
		logger.Error("history is not usable, nothing will be written", zap.String("path", m.store.Path()), zap.Error(err))
		return nil, err
	}
	return h, nil
}

func logOutcome(logger *zap.Logger, o scheme.Outcome) {
	for _, r := range o.Results() {
		fields := []zap.Field{
			zap.String("probe", r.Name),
			zap.String("target", r.Target),
			zap.Bool("ok", r.OK),
			zap.Duration("latency", r.Latency),
			zap.String("message", r.Message),
		}
		if r.OK {
			logger.Info("probe succeeded", fields...)
		} else {
			logger.Warn("probe failed", fields...)
		}
	}
}

func (m *Monitor) render(logger *zap.Logger, s uptime.Summary) error {
	v := report.NewView(s, m.cfg.ReportOptions())
	for _, o := range m.cfg.Outputs() {
		if err := report.WriteFile(o.Path, o.Format, v); err != nil {
			logger.Error("failed to render", zap.String("path", o.Path), zap.Stringer("format", o.Format), zap.Error(err))
			return err
		}
		logger.Debug("rendered", zap.String("path", o.Path), zap.Stringer("format", o.Format))
	}
	return nil
}

// RunCycle probes the host, appends the observation to history, and renders the status documents.
//
// If the history file is corrupt, it returns an error without probing or writing anything.
// If ctx is canceled while probing, it returns ErrAborted without writing anything,
// because aborted probes say nothing about the host.
func (m *Monitor) RunCycle(ctx context.Context) (CycleResult, error) {
	id, logger := m.runLogger()
	result := CycleResult{RunID: id}

	unlock, err := m.store.Lock()
	if err != nil {
		logger.Error("failed to start check", zap.Error(err))
		return result, err
	}
	defer m.release(logger, unlock)

	h, err := m.load(logger)
	if err != nil {
		return result, err
	}

	result.Outcome = m.probes.Run(ctx)
	logOutcome(logger, result.Outcome)

	if err := ctx.Err(); err != nil {
		logger.Warn("check aborted, nothing is recorded", zap.Error(err))
		return result, isdownerr.New(ErrAborted, err, "check aborted before the result was recorded")
	}

	now := m.now()
	result.Observation = result.Outcome.Observation(now)

	appended := h.Append(result.Observation)
	saved, err := m.store.Save(appended, m.cfg.Retention(), now)
	if err != nil {
		logger.Error("failed to save history", zap.String("path", m.store.Path()), zap.Error(err))
		return result, err
	}
	result.Pruned = len(appended) - len(saved)

	result.Summary = uptime.Summarize(saved, uptime.DefaultWindows, now)
	if err := m.render(logger, result.Summary); err != nil {
		return result, err
	}

	logger.Info(
		"check complete",
		zap.Bool("up", result.Summary.Up),
		zap.Int("records", len(saved)),
		zap.Int("pruned", result.Pruned),
		zap.Stringer("retention", m.cfg.Retention()),
	)

	return result, nil
}

// Render renders the status documents from history without probing.
// An absent history is rendered as the empty state.
func (m *Monitor) Render(ctx context.Context) (uptime.Summary, error) {
	_, logger := m.runLogger()

	unlock, err := m.store.Lock()
	if err != nil {
		logger.Error("failed to start render", zap.Error(err))
		return uptime.Summary{}, err
	}
	defer m.release(logger, unlock)

	h, err := m.load(logger)
	if err != nil {
		return uptime.Summary{}, err
	}

	s := uptime.Summarize(h, uptime.DefaultWindows, m.now())
	if err := m.render(logger, s); err != nil {
		return s, err
	}

	logger.Info("render complete", zap.Bool("up", s.Up), zap.Int("records", len(h)))

	return s, nil
}

// Probe runs the probes without touching history.
func (m *Monitor) Probe(ctx context.Context) scheme.Outcome {
	_, logger := m.runLogger()

	o := m.probes.Run(ctx)
	logOutcome(logger, o)

	return o
}

// History reads the history for reporting.
func (m *Monitor) History() (api.History, error) {
	_, logger := m.runLogger()
	return m.load(logger)
}
