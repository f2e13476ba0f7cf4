package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pevans/newsdigest/archive"
	"github.com/pevans/newsdigest/config"
)

func handleRuns(cfg *config.Config, args []string) {
	// Parse flags for runs command
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	source := fs.String("source", "", "Only show runs of this source")
	limit := fs.Int("limit", 20, "Maximum number of runs to show")
	offset := fs.Int("offset", 0, "Number of runs to skip")
	format := fs.String("format", "table", "Output format (table or json)")
	fs.Parse(args)

	if *limit < 0 || *offset < 0 {
		fmt.Fprintf(os.Stderr, "Error: --limit and --offset must not be negative\n")
		os.Exit(1)
	}

	store := mustOpenArchive(cfg)
	defer store.Close()

	filter := archive.RunFilter{
		Limit:  *limit,
		Offset: *offset,
	}
	if *source != "" {
		filter.Source = source
	}

	runs, err := store.ListRuns(filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list runs: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "table":
		printRunsTable(runs)
	case "json":
		printJSON(map[string]any{
			"runs":  runs,
			"total": len(runs),
		})
	default:
		fmt.Fprintf(os.Stderr, "Error: --format must be 'table' or 'json'\n")
		os.Exit(1)
	}
}

func handleShow(cfg *config.Config, args []string) {
	// Allow the run ID before the flags
	var runID string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		runID = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("show", flag.ExitOnError)
	format := fs.String("format", "table", "Output format (table or json)")
	fs.Parse(args)

	if runID == "" {
		runID = fs.Arg(0)
	}
	if runID == "" {
		fmt.Fprintf(os.Stderr, "Error: run ID is required\n")
		fmt.Fprintf(os.Stderr, "Usage: newsdigest show <run-id> [-format table|json]\n")
		os.Exit(1)
	}

	id, err := uuid.Parse(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid run ID: %v\n", err)
		os.Exit(1)
	}

	store := mustOpenArchive(cfg)
	defer store.Close()

	run, err := store.GetRun(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to get run: %v\n", err)
		os.Exit(1)
	}

	records, err := store.ListRecords(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list records: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "table":
		printRunDetail(run, records)
	case "json":
		printJSON(map[string]any{
			"run":     run,
			"records": records,
		})
	default:
		fmt.Fprintf(os.Stderr, "Error: --format must be 'table' or 'json'\n")
		os.Exit(1)
	}
}
