package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Clark-Hu/catalog-api/internal/app"
	"github.com/Clark-Hu/catalog-api/internal/config"
	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/logging"
	"github.com/Clark-Hu/catalog-api/internal/service"
)

type seedFile struct {
	Movies []domain.Movie `json:"movies"`
	Songs  []domain.Song  `json:"songs"`
}

func main() {
	var (
		data       = flag.String("data", "seed.json", "path to seed data file")
		configFile = flag.String("config", "", "config file (defaults to CONFIG_FILE or appsettings.json)")
		timeout    = flag.Duration("timeout", time.Minute, "overall timeout")
	)
	flag.Parse()

	path := *configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		log.Fatal("config error", "err", err)
	}
	logger, err := logging.New(os.Stderr, "catalog-seed", cfg.LogLevel)
	if err != nil {
		log.Fatal("logger error", "err", err)
	}

	seed, err := readSeed(*data)
	if err != nil {
		logger.Fatal("read seed data", "file", *data, "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, seed, logger); err != nil {
		cancel()
		logger.Fatal("seed failed", "err", err)
	}
}

func run(ctx context.Context, cfg config.Config, seed seedFile, logger *log.Logger) error {
	backend, catalog, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	movies, err := seedAll(ctx, catalog.Movies, seed.Movies, logger.With("collection", cfg.Database.MoviesCollectionName))
	if err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}
	songs, err := seedAll(ctx, catalog.Songs, seed.Songs, logger.With("collection", cfg.Database.SongsCollectionName))
	if err != nil {
		return fmt.Errorf("seed songs: %w", err)
	}
	logger.Info("seed complete", "movies", movies, "songs", songs)
	return nil
}

func readSeed(path string) (seedFile, error) {
	var seed seedFile
	file, err := os.ReadFile(path)
	if err != nil {
		return seed, err
	}
	err = json.Unmarshal(file, &seed)
	return seed, err
}

type identified interface {
	GetID() string
}

func seedAll[T identified](ctx context.Context, svc *service.Service[T], items []T, logger *log.Logger) (int, error) {
	for i, item := range items {
		created, err := svc.Create(ctx, item)
		if err != nil {
			return i, err
		}
		logger.Debug("created", "id", created.GetID())
	}
	return len(items), nil
}
