// Package app assembles storage, repositories and services from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Clark-Hu/catalog-api/internal/config"
	"github.com/Clark-Hu/catalog-api/internal/repository"
	"github.com/Clark-Hu/catalog-api/internal/service"
	"github.com/Clark-Hu/catalog-api/internal/store"
)

// StoreOptions maps the DatabaseSettings section onto backend options.
func StoreOptions(db config.DatabaseSettings, logger *log.Logger) store.Options {
	return store.Options{
		DatabaseName:           db.DatabaseName,
		MaxConns:               int32(db.MaxConns),
		MinConns:               int32(db.MinConns),
		MaxConnIdleTime:        time.Duration(db.MaxConnIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(db.MaxConnLifetimeSecs) * time.Second,
		ConnTimeout:            time.Duration(db.ConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: db.StatementCacheCapacity,
		Logger:                 logger,
	}
}

// Open connects the configured backend, applies Postgres migrations and
// builds the catalog services. The caller owns the returned backend.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (store.Backend, *service.Catalog, error) {
	backend, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.ConnectionString, StoreOptions(cfg.Database, logger))
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if pg, ok := backend.(*store.Postgres); ok {
		if err := pg.Migrate(ctx); err != nil {
			backend.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	repo, err := repository.New(backend, repository.Names{
		Movies: cfg.Database.MoviesCollectionName,
		Songs:  cfg.Database.SongsCollectionName,
	})
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return backend, service.NewCatalog(repo), nil
}
