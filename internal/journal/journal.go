// Package journal keeps a persistent history of clock changes made
// through the control module.
package journal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/timeshift/internal/config"
	"github.com/HerbHall/timeshift/internal/control"
	"github.com/HerbHall/timeshift/internal/plugin"
	pkgplugin "github.com/HerbHall/timeshift/pkg/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin           = (*Plugin)(nil)
	_ pkgplugin.HealthChecker = (*Plugin)(nil)
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
	topicPrefix      = "time."
)

// Plugin records control events into a Repository.
type Plugin struct {
	logger *zap.Logger
	store  pkgplugin.Store
	bus    pkgplugin.EventBus
	repo   Repository

	listLimit int

	mu          sync.Mutex
	unsubscribe func()
	recorded    int64
	failures    int64
}

// New creates a journal plugin persisting to store and listening on bus.
func New(store pkgplugin.Store, bus pkgplugin.EventBus) *Plugin {
	return &Plugin{
		logger:    zap.NewNop(),
		store:     store,
		bus:       bus,
		listLimit: defaultListLimit,
	}
}

func (p *Plugin) Name() string        { return "journal" }
func (p *Plugin) Version() string     { return "0.1.0" }
func (p *Plugin) Description() string { return "persistent history of clock changes" }

func (p *Plugin) Init(cfg *viper.Viper, logger *zap.Logger) error {
	p.logger = logger
	c := config.New(cfg)
	if c.IsSet("list_limit") {
		p.listLimit = c.GetInt("list_limit")
	}
	if p.listLimit <= 0 || p.listLimit > maxListLimit {
		return fmt.Errorf("list_limit must be in (0, %d], got %d", maxListLimit, p.listLimit)
	}
	if p.store == nil {
		return errors.New("journal requires a store")
	}

	repo, err := NewSQLiteRepository(context.Background(), p.store)
	if err != nil {
		return err
	}
	p.repo = repo
	return nil
}

// Start subscribes to clock events.
func (p *Plugin) Start(_ context.Context) error {
	if p.bus == nil {
		p.logger.Warn("journal started without an event bus; nothing will be recorded")
		return nil
	}
	p.mu.Lock()
	p.unsubscribe = p.bus.SubscribeAll(p.handleEvent)
	p.mu.Unlock()
	p.logger.Info("journal started")
	return nil
}

func (p *Plugin) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	return nil
}

func (p *Plugin) Health(_ context.Context) pkgplugin.HealthStatus {
	p.mu.Lock()
	recorded, failures := p.recorded, p.failures
	p.mu.Unlock()

	status := "ok"
	if failures > 0 {
		status = "degraded"
	}
	return pkgplugin.HealthStatus{
		Status: status,
		Details: map[string]string{
			"recorded": fmt.Sprint(recorded),
			"failures": fmt.Sprint(failures),
		},
	}
}

func (p *Plugin) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: http.MethodGet, Path: "/entries", Handler: p.handleList},
		{Method: http.MethodDelete, Path: "/entries", Handler: p.handleClear},
	}
}

func (p *Plugin) handleEvent(ctx context.Context, e pkgplugin.Event) {
	if !strings.HasPrefix(e.Topic, topicPrefix) {
		return
	}
	entry := Entry{
		ID:         e.ID,
		Topic:      e.Topic,
		Source:     e.Source,
		VirtualAt:  e.Timestamp,
		RecordedAt: time.Now(),
	}
	if s, ok := e.Payload.(control.Status); ok {
		entry.Offset = time.Duration(s.OffsetNS)
		entry.Virtual = s.Virtual
	}

	err := p.repo.Record(ctx, entry)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.failures++
		p.logger.Error("failed to record clock change",
			zap.String("topic", e.Topic),
			zap.String("id", e.ID),
			zap.Error(err),
		)
		return
	}
	p.recorded++
}
