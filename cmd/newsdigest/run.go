package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pevans/newsdigest/config"
	"github.com/pevans/newsdigest/digest"
	"github.com/pevans/newsdigest/discovery"
	"github.com/pevans/newsdigest/report"
	"github.com/pevans/newsdigest/sources"
)

func handleRun(cfg *config.Config, args []string) {
	// Parse flags for run command
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	noArchive := fs.Bool("no-archive", false, "Do not record the run in the archive")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: newsdigest run [-no-archive] [source ...]")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	registry := loadRegistry(cfg)

	names := fs.Args()
	if len(names) == 0 {
		names = []string{sources.DefaultProfile}
	}

	profiles := make([]sources.Profile, 0, len(names))
	for _, name := range names {
		profile, err := registry.Lookup(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Available sources: %v\n", registry.Names())
			os.Exit(1)
		}
		profiles = append(profiles, profile)
	}

	if !runProfiles(cfg, profiles, !*noArchive) {
		os.Exit(1)
	}
}

// runProfiles runs each profile and prints the outcome. It reports whether
// every run succeeded.
func runProfiles(cfg *config.Config, profiles []sources.Profile, useArchive bool) bool {
	writer, err := report.NewWriter(cfg.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}

	var archiver digest.RunArchiver
	if useArchive && cfg.ArchiveDSN != "" {
		store, err := openArchive(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		defer store.Close()
		archiver = store
	}

	fetcher := discovery.NewFetcher(cfg.Timeout, cfg.UserAgent)
	runner := digest.NewRunner(fetcher, writer, archiver, slog.Default())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary := runner.RunAll(ctx, profiles, time.Now())

	for _, result := range summary.Results {
		printRunResult(result)
	}

	if len(summary.Failures) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, failure := range summary.Failures {
			fmt.Printf("  - %s: %v\n", failure.Profile.Name, failure.Err)
		}
		return false
	}

	return true
}
