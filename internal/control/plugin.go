// Package control exposes the process clock over HTTP so an external
// harness can shift, jump and reset the time seen by a running process.
package control

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/HerbHall/timeshift/internal/config"
	"github.com/HerbHall/timeshift/internal/metrics"
	"github.com/HerbHall/timeshift/internal/plugin"
	pkgplugin "github.com/HerbHall/timeshift/pkg/plugin"
	"github.com/HerbHall/timeshift/pkg/timeshift"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin           = (*Plugin)(nil)
	_ pkgplugin.HealthChecker = (*Plugin)(nil)
	_ pkgplugin.Validator     = (*Plugin)(nil)
)

const (
	defaultWatchInterval = time.Second
	defaultWatchRate     = 10
)

// Plugin implements the clock control module.
type Plugin struct {
	logger  *zap.Logger
	config  config.Config
	bus     pkgplugin.EventBus
	metrics *metrics.Metrics
	auth    *authenticator

	watchInterval time.Duration
	watchRate     rate.Limit
}

// New creates a control plugin that reports changes on bus and m.
// Either may be nil.
func New(bus pkgplugin.EventBus, m *metrics.Metrics) *Plugin {
	return &Plugin{
		logger:        zap.NewNop(),
		config:        config.New(nil),
		bus:           bus,
		metrics:       m,
		watchInterval: defaultWatchInterval,
		watchRate:     defaultWatchRate,
	}
}

func (p *Plugin) Name() string        { return "control" }
func (p *Plugin) Version() string     { return "0.1.0" }
func (p *Plugin) Description() string { return "shift, jump and reset the process clock" }

// Init reads plugin configuration and applies the configured starting
// clock: initial_time jumps, then initial_offset shifts.
func (p *Plugin) Init(cfg *viper.Viper, logger *zap.Logger) error {
	p.logger = logger
	p.config = config.New(cfg)
	timeshift.SetLogger(logger)

	p.auth = newAuthenticator(p.config.GetString("auth_secret"))
	if p.config.IsSet("watch_interval") {
		p.watchInterval = p.config.GetDuration("watch_interval")
	}
	if p.config.IsSet("watch_rate") {
		p.watchRate = rate.Limit(p.config.GetFloat64("watch_rate"))
	}
	if err := p.ValidateConfig(); err != nil {
		return err
	}

	if at := p.config.GetString("initial_time"); at != "" {
		if err := timeshift.JumpToTime(timeshift.AtString(at)); err != nil {
			return fmt.Errorf("initial_time: %w", err)
		}
	}
	if d := p.config.GetDuration("initial_offset"); d != 0 {
		timeshift.ShiftTimeBy(d)
	}

	p.logger.Info("control module initialized",
		zap.Bool("auth", p.auth != nil),
		zap.Bool("virtual", timeshift.IsVirtual()),
		zap.Duration("offset", timeshift.CurrentOffset()),
	)
	return nil
}

// ValidateConfig rejects watch settings that would spin or stall.
func (p *Plugin) ValidateConfig() error {
	if p.watchInterval <= 0 {
		return fmt.Errorf("watch_interval must be positive, got %v", p.watchInterval)
	}
	if p.watchRate <= 0 {
		return fmt.Errorf("watch_rate must be positive, got %v", p.watchRate)
	}
	return nil
}

func (p *Plugin) Start(ctx context.Context) error {
	p.logger.Info("control module started")
	return nil
}

// Stop puts the real clock back so nothing outlives the daemon shifted.
func (p *Plugin) Stop() error {
	timeshift.ResetTime()
	p.logger.Info("control module stopped")
	return nil
}

// Health reports the clock mode.
func (p *Plugin) Health(_ context.Context) pkgplugin.HealthStatus {
	mode := "real"
	if timeshift.IsVirtual() {
		mode = "virtual"
	}
	return pkgplugin.HealthStatus{
		Status: "ok",
		Details: map[string]string{
			"clock":  mode,
			"offset": timeshift.CurrentOffset().String(),
		},
	}
}

func (p *Plugin) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: http.MethodGet, Path: "/status", Handler: p.handleStatus},
		{Method: http.MethodGet, Path: "/watch", Handler: p.handleWatch},
		{Method: http.MethodPost, Path: "/shift", Handler: p.auth.require(p.handleShift)},
		{Method: http.MethodPost, Path: "/jump", Handler: p.auth.require(p.handleJump)},
		{Method: http.MethodPost, Path: "/reset", Handler: p.auth.require(p.handleReset)},
	}
}

// publish reports an applied change on the bus and in metrics.
func (p *Plugin) publish(ctx context.Context, topic, op string, status Status) {
	if p.metrics != nil {
		p.metrics.Observe(op)
	}
	if p.bus != nil {
		_ = p.bus.Publish(ctx, pkgplugin.Event{
			Topic:   topic,
			Source:  p.Name(),
			Payload: status,
		})
	}
}

func (p *Plugin) fail(op string) {
	if p.metrics != nil {
		p.metrics.Fail(op)
	}
}
