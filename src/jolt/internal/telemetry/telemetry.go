// Package telemetry reports unexpected failures to Sentry when it is configured.
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKey    = "telemetry"
	_modulePrefix = "github.com/jolt-ai/jolt-host"
	_flushTimeout = 2 * time.Second
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Reporter forwards errors and messages to the crash reporting backend.
// Callers log their own errors; CaptureException only forwards them.
// Messages are also written to the service log, whether or not reporting is enabled.
type Reporter interface {
	CaptureException(err error)
	CaptureMessage(msg string)
	Flush(timeout time.Duration) bool
	Enabled() bool
}

// Config is the telemetry section of the service configuration.
// Reporting is enabled only when both values are present.
type Config struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// Params define values to be used by Reporter.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
}

// hub is the subset of *sentry.Hub used by the reporter.
type hub interface {
	CaptureException(exception error) *sentry.EventID
	CaptureMessage(message string) *sentry.EventID
	Flush(timeout time.Duration) bool
}

type reporter struct {
	logger *zap.SugaredLogger
	hub    hub
}

// New creates a Reporter. Without a DSN and environment the returned Reporter only logs.
func New(p Params) (Reporter, error) {
	cfg := Config{}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}

	r := &reporter{logger: p.Logger.With("component", "telemetry")}
	if cfg.DSN == "" || cfg.Environment == "" {
		r.logger.Infow("crash reporting disabled", "dsnSet", cfg.DSN != "", "environment", cfg.Environment)
		return r, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		BeforeSend:  filterEvent,
	})
	if err != nil {
		return nil, fmt.Errorf("creating sentry client: %w", err)
	}
	r.hub = sentry.NewHub(client, sentry.NewScope())

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			r.Flush(_flushTimeout)
			return nil
		},
	})
	return r, nil
}

func (r *reporter) CaptureException(err error) {
	if err == nil || r.hub == nil {
		return
	}
	r.logger.Debugw("reporting error", zap.Error(err))
	r.hub.CaptureException(err)
}

func (r *reporter) CaptureMessage(msg string) {
	r.logger.Warnw("captured message", "message", msg)
	if r.hub != nil {
		r.hub.CaptureMessage(msg)
	}
}

func (r *reporter) Flush(timeout time.Duration) bool {
	if r.hub == nil {
		return true
	}
	return r.hub.Flush(timeout)
}

func (r *reporter) Enabled() bool {
	return r.hub != nil
}

// filterEvent drops exception events raised entirely outside of this module.
// Events without a stack trace are kept.
func filterEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	var frames []sentry.Frame
	for _, e := range event.Exception {
		if e.Stacktrace != nil {
			frames = append(frames, e.Stacktrace.Frames...)
		}
	}
	if len(frames) == 0 {
		return event
	}

	for _, f := range frames {
		if strings.HasPrefix(f.Module, _modulePrefix) {
			return event
		}
	}
	return nil
}
