// Package backend opens the store selected by configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/database/migration"
	"portfolio/internal/logger"
	"portfolio/internal/repository"
	"portfolio/internal/repository/demo"
	"portfolio/internal/repository/memory"
	"portfolio/internal/repository/mongodb"
	"portfolio/internal/repository/postgres"
)

// Open connects the backend selected by STORE_DRIVER. Missing credentials
// select the demo store. The Postgres change listener runs on g; a nil g
// opens the store without change notifications.
func Open(ctx context.Context, cfg *config.AppConfig, log *slog.Logger, g *errgroup.Group) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory, config.DriverPostgres, config.DriverMongo:
	default:
		return repository.Store{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.Demo() {
		log.Warn("store credentials missing, running in demo mode", slog.String("driver", cfg.StoreDriver))
		return demo.New(), nil
	}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using the in-memory store, content is lost on restart")
		return memory.New().Repositories(), nil

	case config.DriverPostgres:
		pg, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return repository.Store{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, pg.DB, log, cfg.Database.Host); err != nil {
			_ = pg.Close()
			return repository.Store{}, fmt.Errorf("migrate database: %w", err)
		}

		feed := repository.NewFanout()
		if g != nil {
			listener := postgres.NewListener(pg.DSN, feed, log)
			g.Go(func() error {
				if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("postgres change listener stopped", logger.Err(err))
				}
				return nil
			})
		}
		return postgres.New(pg.DB, feed).Repositories(), nil

	default:
		m, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return repository.Store{}, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := m.CreateIndexes(ctx); err != nil {
			_ = m.Close(context.Background())
			return repository.Store{}, err
		}
		return mongodb.New(m).Repositories(), nil
	}
}
