package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pevans/newsdigest/config"
	"github.com/pevans/newsdigest/logger"
)

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]
	if subcommand == "help" || subcommand == "--help" || subcommand == "-h" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.LogLevel, os.Stderr))

	switch subcommand {
	case "run":
		handleRun(cfg, os.Args[2:])
	case "sources":
		handleSources(cfg, os.Args[2:])
	case "runs":
		handleRuns(cfg, os.Args[2:])
	case "show":
		handleShow(cfg, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	writeUsage(os.Stdout)
}

func writeUsage(w io.Writer) {
	fmt.Fprintln(w, "newsdigest -- Daily news digests as CSV and HTML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  newsdigest <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run        Fetch sources and write today's reports")
	fmt.Fprintln(w, "  sources    List source profiles")
	fmt.Fprintln(w, "  runs       List archived runs")
	fmt.Fprintln(w, "  show       Show the records of an archived run")
	fmt.Fprintln(w, "  help       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	fmt.Fprintln(w, "  NEWSDIGEST_CONFIG       Path to config file (default: ~/.newsdigest/config.yaml)")
	fmt.Fprintln(w, "  NEWSDIGEST_OUTPUT_DIR   Report directory (default: data)")
	fmt.Fprintln(w, "  NEWSDIGEST_ARCHIVE_DSN  Path to run archive (default: <output dir>/archive.db)")
	fmt.Fprintln(w, "  NEWSDIGEST_USER_AGENT   User-Agent sent with fetches")
	fmt.Fprintln(w, "  NEWSDIGEST_TIMEOUT      Fetch timeout (default: 10s)")
	fmt.Fprintln(w, "  NEWSDIGEST_LOG_LEVEL    debug, info, warn or error (default: info)")
	fmt.Fprintln(w, "  NEWSDIGEST_API_ADDR     Listen address of newsdigest-api (default: localhost:8080)")
}
