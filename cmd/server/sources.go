package main

import (
	"context"
	"fmt"

	billapp "github.com/billed/backend/internal/application/bill"
	"github.com/billed/backend/internal/domain/session"
	"github.com/billed/backend/internal/infrastructure/config"
	"github.com/billed/backend/internal/infrastructure/persistence"
	"github.com/billed/backend/internal/infrastructure/remote"
	"github.com/billed/backend/internal/infrastructure/storage"
	"github.com/billed/backend/internal/infrastructure/telemetry"
	"github.com/billed/backend/internal/interfaces/http/handler"
	"go.uber.org/zap"
)

// billSource is the configured bill store plus its lifecycle hooks
type billSource struct {
	stores handler.StoreFactory
	checks map[string]handler.HealthCheck
	close  func()
}

func openBillSource(ctx context.Context, cfg *config.Config, log *zap.Logger) (*billSource, error) {
	switch cfg.App.BillSource {
	case config.SourceMemory:
		store := persistence.NewFixtureBillStore()
		log.Warn("Serving fixture bills from memory")
		return &billSource{
			stores: scoped(func(session.Context) billapp.UserStore { return store }),
			close:  func() {},
		}, nil

	case config.SourceRemote:
		client, err := remote.NewClient(cfg.RemoteStore, remote.WithLogger(log))
		if err != nil {
			return nil, err
		}
		log.Info("Listing bills from remote store", zap.String("base_url", cfg.RemoteStore.BaseURL))
		return &billSource{
			stores: scoped(func(s session.Context) billapp.UserStore { return client.ForSession(s) }),
			close:  func() {},
		}, nil

	case config.SourceDB:
		db, err := persistence.NewDatabase(&cfg.Database, log)
		if err != nil {
			return nil, err
		}
		dbSystem := "postgresql"
		if db.Driver == "sqlite" {
			dbSystem = "sqlite"
		}
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
			Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			DBSystem:   dbSystem,
			LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		}, log); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
		log.Info("Database connected successfully", zap.String("driver", db.Driver))

		repo := persistence.NewGormBillRepository(db.DB)
		return &billSource{
			stores: scoped(func(session.Context) billapp.UserStore { return repo }),
			checks: map[string]handler.HealthCheck{
				"database": func(context.Context) error { return db.Ping() },
			},
			close: func() {
				if err := db.Close(); err != nil {
					log.Error("Error closing database", zap.Error(err))
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown bill source %q", cfg.App.BillSource)
	}
}

// scoped restricts every session to the bills it may see
func scoped(open func(session.Context) billapp.UserStore) handler.StoreFactory {
	return func(s session.Context) billapp.Store {
		return billapp.ScopeToSession(open(s), s)
	}
}

func newURLResolver(ctx context.Context, cfg *config.Config, log *zap.Logger) (handler.URLResolver, error) {
	if !cfg.Storage.Enabled {
		return storage.NewStaticURLResolver(""), nil
	}
	s3, err := storage.NewS3FileStorage(ctx, &cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
	}
	return s3, nil
}
