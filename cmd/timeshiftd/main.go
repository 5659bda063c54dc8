package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/timeshift/internal/control"
	"github.com/HerbHall/timeshift/internal/event"
	"github.com/HerbHall/timeshift/internal/journal"
	"github.com/HerbHall/timeshift/internal/metrics"
	"github.com/HerbHall/timeshift/internal/plugin"
	"github.com/HerbHall/timeshift/internal/server"
	"github.com/HerbHall/timeshift/internal/store"
	"github.com/HerbHall/timeshift/internal/version"
	pkgplugin "github.com/HerbHall/timeshift/pkg/plugin"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("timeshiftd starting", zap.String("version", version.Short()))

	// Load configuration
	config, err := server.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open database
	db, err := store.Open(ctx, config.GetString("database.path"))
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	bus := event.NewBus(logger.Named("bus"))
	bus.SubscribeAll(func(_ context.Context, e pkgplugin.Event) {
		logger.Info("clock event",
			zap.String("topic", e.Topic),
			zap.String("id", e.ID),
			zap.Time("virtual_time", e.Timestamp),
		)
	})
	m := metrics.New()

	// Create plugin registry
	registry := plugin.NewRegistry(logger)
	for _, p := range []plugin.Plugin{
		control.New(bus, m),
		journal.New(db, bus),
	} {
		if err := registry.Register(p); err != nil {
			logger.Fatal("failed to register plugin", zap.String("plugin", p.Name()), zap.Error(err))
		}
	}

	// Initialize all plugins
	if err := registry.InitAll(config); err != nil {
		logger.Fatal("failed to initialize plugins", zap.Error(err))
	}

	if err := registry.StartAll(ctx); err != nil {
		logger.Fatal("failed to start plugins", zap.Error(err))
	}

	addr := config.GetString("server.host") + ":" + config.GetString("server.port")
	srv := server.New(addr, registry, m.Handler(), logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("timeshiftd ready", zap.String("addr", addr))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	registry.StopAll()

	logger.Info("timeshiftd stopped")
}
