package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"staffing/internal/adapters/impexp"
	"staffing/internal/adapters/persistence"
	"staffing/internal/adapters/telemetry"
	"staffing/internal/config"
	"staffing/internal/logger"
	"staffing/internal/ports"
	"staffing/internal/service"
)

type snapshotStore interface {
	ports.SnapshotStore
	io.Closer
}

// app owns everything built from one configuration.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	store    snapshotStore
	registry *prometheus.Registry
	svc      *service.Service
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.New("staffing", logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	sink, err := telemetry.NewPromTelemetry(registry)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	svc, err := service.New(store, sink, impexp.NewSnapshotCodec(store),
		service.WithLogger(log.With("service")),
		service.WithEngineSettings(service.EngineSettings{
			DefaultForecastWeeks:   cfg.Engine.DefaultForecastWeeks,
			MaxForecastWeeks:       cfg.Engine.MaxForecastWeeks,
			AvailabilityWindowDays: cfg.Engine.AvailabilityWindowDays,
		}),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	log.Debugw("storage opened", map[string]any{"backend": cfg.Storage.Backend})
	return &app{cfg: cfg, log: log, store: store, registry: registry, svc: svc}, nil
}

func openStore(ctx context.Context, cfg config.StorageConfig) (snapshotStore, error) {
	switch cfg.Backend {
	case config.StorageFile:
		return persistence.NewFileRepository(cfg.Path)
	case config.StorageSQLite:
		return persistence.NewSQLiteRepository(ctx, cfg.Path)
	case config.StoragePostgres:
		return persistence.NewPostgresRepository(ctx, persistence.PostgresConfig{
			DSN:      cfg.DSN,
			MaxConns: cfg.MaxConns,
			MinConns: cfg.MinConns,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func (a *app) Close() error {
	return a.store.Close()
}
