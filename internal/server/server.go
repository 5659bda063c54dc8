// Package server hosts the timeshift daemon's HTTP surface.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/timeshift/internal/plugin"
	"github.com/HerbHall/timeshift/internal/version"
	"github.com/HerbHall/timeshift/pkg/timeshift"
)

// Server is the main timeshift daemon server.
type Server struct {
	httpServer *http.Server
	registry   *plugin.Registry
	logger     *zap.Logger
	mux        *http.ServeMux
}

// New creates a new Server instance. metrics may be nil, in which case
// /metrics is not mounted.
func New(addr string, reg *plugin.Registry, metrics http.Handler, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		registry: reg,
		logger:   logger,
		mux:      mux,
	}

	s.registerCoreRoutes(metrics)
	s.mountPluginRoutes()

	return s
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes(metrics http.Handler) {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/plugins", s.handlePlugins)
	if metrics != nil {
		s.mux.Handle("GET /metrics", metrics)
	}
}

// mountPluginRoutes registers all plugin routes under /api/v1/{plugin}/.
func (s *Server) mountPluginRoutes() {
	allRoutes := s.registry.AllRoutes()
	for pluginName, routes := range allRoutes {
		for _, route := range routes {
			pattern := fmt.Sprintf("%s /api/v1/%s%s", route.Method, pluginName, route.Path)
			s.mux.HandleFunc(pattern, route.Handler)
			s.logger.Debug("mounted route",
				zap.String("plugin", pluginName),
				zap.String("pattern", pattern),
			)
		}
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status along with the clock
// mode, so a harness can confirm it is talking to a shifted process.
// The status is the worst reported by any enabled plugin.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	plugins := s.registry.Health(r.Context())
	status := "ok"
	for _, hs := range plugins {
		if hs.Status != "ok" {
			status = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Timeshift-Version", version.Short())
	json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"service":   "timeshiftd",
		"version":   version.Map(),
		"virtual":   timeshift.IsVirtual(),
		"offset_ms": timeshift.CurrentOffsetMillis(),
		"plugins":   plugins,
	})
}

// handlePlugins lists registered plugins with their health.
func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Timeshift-Version", version.Short())
	json.NewEncoder(w).Encode(s.registry.Describe(r.Context()))
}
