package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pevans/newsdigest/archive"
	"github.com/pevans/newsdigest/config"
	"github.com/pevans/newsdigest/logger"
	"github.com/pevans/newsdigest/sources"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.LogLevel, os.Stderr))

	if cfg.ArchiveDSN == "" {
		slog.Error("the run archive is disabled, nothing to serve")
		os.Exit(1)
	}

	registry, err := cfg.Registry()
	if err != nil {
		slog.Error("failed to load source profiles", "error", err)
		os.Exit(1)
	}

	store, err := archive.NewRunStore(cfg.ArchiveDSN)
	if err != nil {
		slog.Error("failed to open run archive", "path", cfg.ArchiveDSN, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Archive and profile routes share /api/v1
	server := archive.NewAPIServer(store)
	router := server.SetupRouter(sources.NewAPIServer(registry))

	slog.Info("starting archive API server", "url", "http://"+cfg.APIAddr+"/api/v1/runs")
	if err := router.Run(cfg.APIAddr); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
