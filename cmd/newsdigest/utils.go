package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pevans/newsdigest/archive"
	"github.com/pevans/newsdigest/config"
	"github.com/pevans/newsdigest/sources"
)

var errArchiveDisabled = errors.New("the run archive is disabled")

// loadRegistry builds the profile registry or exits.
func loadRegistry(cfg *config.Config) *sources.Registry {
	registry, err := cfg.Registry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return registry
}

// openArchive opens the run archive, creating its directory if needed.
func openArchive(cfg *config.Config) (*archive.RunStore, error) {
	if cfg.ArchiveDSN == "" {
		return nil, errArchiveDisabled
	}
	if err := os.MkdirAll(filepath.Dir(cfg.ArchiveDSN), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	store, err := archive.NewRunStore(cfg.ArchiveDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open run archive: %w", err)
	}
	return store, nil
}

func mustOpenArchive(cfg *config.Config) *archive.RunStore {
	store, err := openArchive(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return store
}
