package plugin

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	pkgplugin "github.com/HerbHall/timeshift/pkg/plugin"
)

// entry is one registered module and whether InitAll brought it up.
type entry struct {
	plugin  Plugin
	enabled bool
}

// Registry drives module lifecycles in registration order. Only modules
// that InitAll enabled are started, stopped, routed or health-checked.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	logger  *zap.Logger
}

// Info describes a registered module for listings.
type Info struct {
	Name        string                  `json:"name"`
	Version     string                  `json:"version"`
	Description string                  `json:"description"`
	Enabled     bool                    `json:"enabled"`
	Health      *pkgplugin.HealthStatus `json:"health,omitempty"`
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds p. Names must be unique.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(p.Name()) != nil {
		return fmt.Errorf("plugin %q already registered", p.Name())
	}
	r.entries = append(r.entries, &entry{plugin: p})
	r.logger.Info("plugin registered", zap.String("name", p.Name()), zap.String("version", p.Version()))
	return nil
}

// InitAll hands each module its plugins.<name> section. A module whose
// plugins.<name>.enabled key is explicitly false is skipped and stays
// disabled for the rest of the process.
func (r *Registry) InitAll(config *viper.Viper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		name := e.plugin.Name()
		key := "plugins." + name
		if config.IsSet(key+".enabled") && !config.GetBool(key+".enabled") {
			r.logger.Info("plugin disabled, skipping", zap.String("name", name))
			continue
		}

		sub := config.Sub(key)
		if sub == nil {
			sub = viper.New()
		}
		r.logger.Info("initializing plugin", zap.String("name", name))
		if err := e.plugin.Init(sub, r.logger.Named(name)); err != nil {
			return fmt.Errorf("failed to initialize plugin %q: %w", name, err)
		}
		e.enabled = true
	}
	return nil
}

func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.enabledPlugins() {
		r.logger.Info("starting plugin", zap.String("name", p.Name()))
		if err := p.Start(ctx); err != nil {
			return fmt.Errorf("failed to start plugin %q: %w", p.Name(), err)
		}
	}
	return nil
}

// StopAll stops enabled modules in reverse order. Errors are logged.
func (r *Registry) StopAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enabled := r.enabledPlugins()
	for i := len(enabled) - 1; i >= 0; i-- {
		p := enabled[i]
		r.logger.Info("stopping plugin", zap.String("name", p.Name()))
		if err := p.Stop(); err != nil {
			r.logger.Error("failed to stop plugin", zap.String("name", p.Name()), zap.Error(err))
		}
	}
}

// Enabled reports whether the named module was initialized.
func (r *Registry) Enabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e := r.find(name)
	return e != nil && e.enabled
}

// Describe lists every registered module in registration order, with the
// health of enabled modules that report it.
func (r *Registry) Describe(ctx context.Context) []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		info := Info{
			Name:        e.plugin.Name(),
			Version:     e.plugin.Version(),
			Description: e.plugin.Description(),
			Enabled:     e.enabled,
		}
		if hc, ok := e.plugin.(pkgplugin.HealthChecker); ok && e.enabled {
			hs := hc.Health(ctx)
			info.Health = &hs
		}
		out = append(out, info)
	}
	return out
}

// Health collects the status of every enabled module that reports one,
// keyed by module name.
func (r *Registry) Health(ctx context.Context) map[string]pkgplugin.HealthStatus {
	out := make(map[string]pkgplugin.HealthStatus)
	for _, info := range r.Describe(ctx) {
		if info.Health != nil {
			out[info.Name] = *info.Health
		}
	}
	return out
}

// AllRoutes returns the routes of enabled modules keyed by module name.
func (r *Registry) AllRoutes() map[string][]Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make(map[string][]Route)
	for _, p := range r.enabledPlugins() {
		if pr := p.Routes(); len(pr) > 0 {
			routes[p.Name()] = pr
		}
	}
	return routes
}

// enabledPlugins must be called with r.mu held.
func (r *Registry) enabledPlugins() []Plugin {
	out := make([]Plugin, 0, len(r.entries))
	for _, e := range r.entries {
		if e.enabled {
			out = append(out, e.plugin)
		}
	}
	return out
}

func (r *Registry) find(name string) *entry {
	for _, e := range r.entries {
		if e.plugin.Name() == name {
			return e
		}
	}
	return nil
}
