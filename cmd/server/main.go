package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Clark-Hu/catalog-api/internal/app"
	"github.com/Clark-Hu/catalog-api/internal/config"
	httpserver "github.com/Clark-Hu/catalog-api/internal/http"
	"github.com/Clark-Hu/catalog-api/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config error", "err", err)
	}

	logger, err := logging.New(os.Stdout, "catalog-api", cfg.LogLevel)
	if err != nil {
		log.Fatal("logger error", "err", err)
	}

	dbCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.ConnTimeoutSecs+5)*time.Second)
	defer cancel()

	backend, catalog, err := app.Open(dbCtx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", "driver", cfg.Database.Driver, "err", err)
	}
	defer backend.Close()

	server := httpserver.New(cfg, backend, catalog, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.Error("server error", "err", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("graceful shutdown error", "err", err)
	}
}
