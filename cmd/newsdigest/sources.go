package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pevans/newsdigest/config"
)

func handleSources(cfg *config.Config, args []string) {
	// Parse flags for sources command
	fs := flag.NewFlagSet("sources", flag.ExitOnError)
	format := fs.String("format", "table", "Output format (table or json)")
	fs.Parse(args)

	registry := loadRegistry(cfg)
	profiles := registry.List()

	switch *format {
	case "table":
		printProfilesTable(profiles)
	case "json":
		printJSON(map[string]any{
			"sources": profiles,
			"total":   len(profiles),
		})
	default:
		fmt.Fprintf(os.Stderr, "Error: --format must be 'table' or 'json'\n")
		os.Exit(1)
	}
}
