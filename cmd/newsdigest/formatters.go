package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pevans/newsdigest/archive"
	"github.com/pevans/newsdigest/digest"
	"github.com/pevans/newsdigest/extract"
	"github.com/pevans/newsdigest/sources"
)

const (
	titleWidth = 60
	nameWidth  = 16
)

// cell truncates s to width display columns and pads it to exactly that
// width. Wide (CJK) characters count as two columns.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}

// printJSON prints v as indented JSON
func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}

// printRunResult prints the outcome of one run
func printRunResult(result *digest.Result) {
	fmt.Printf("✓ %s: %d stories for %s\n", result.Profile.Name, len(result.Records), result.Date)
	writeRecordLines(os.Stdout, result.Records)
	fmt.Printf("  CSV:  %s\n", result.CSVPath)
	if result.HTMLPath != "" {
		fmt.Printf("  HTML: %s\n", result.HTMLPath)
	}
}

func writeRecordLines(w io.Writer, records []extract.Record) {
	for i, record := range records {
		fmt.Fprintf(w, "  %2d. %s\n", i+1, cell(record.Title, titleWidth))
	}
}

// printProfilesTable prints the source profiles
func printProfilesTable(profiles []sources.Profile) {
	writeProfilesTable(os.Stdout, profiles)
}

func writeProfilesTable(w io.Writer, profiles []sources.Profile) {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No sources configured.")
		return
	}

	fmt.Fprintf(w, "%s %-6s %-4s %-5s %s\n", cell("NAME", nameWidth), "FORMAT", "CAP", "HTML", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, p := range profiles {
		html := "no"
		if p.WriteHTML {
			html = "yes"
		}
		fmt.Fprintf(w, "%s %-6s %-4d %-5s %s\n", cell(p.Name, nameWidth), p.Format, p.Cap, html, p.URL)
	}
}

// printRunsTable prints archived runs
func printRunsTable(runs []archive.Run) {
	writeRunsTable(os.Stdout, runs)
}

func writeRunsTable(w io.Writer, runs []archive.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs archived.")
		return
	}

	fmt.Fprintf(w, "%-36s %s %-10s %-7s %s\n", "ID", cell("SOURCE", nameWidth), "DATE", "RECORDS", "FETCHED")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, run := range runs {
		fmt.Fprintf(w, "%-36s %s %-10s %-7d %s\n",
			run.RunID.String(),
			cell(run.Source, nameWidth),
			run.RunDate,
			run.RecordCount,
			run.FetchedAt.Local().Format("2006-01-02 15:04:05"),
		)
	}
}

// printRunDetail prints one run with its records
func printRunDetail(run *archive.Run, records []extract.Record) {
	writeRunDetail(os.Stdout, run, records)
}

func writeRunDetail(w io.Writer, run *archive.Run, records []extract.Record) {
	fmt.Fprintf(w, "Source:   %s\n", run.Source)
	fmt.Fprintf(w, "Date:     %s\n", run.RunDate)
	fmt.Fprintf(w, "Fetched:  %s\n", run.FetchedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "CSV:      %s\n", run.CSVPath)
	if run.HTMLPath != nil {
		fmt.Fprintf(w, "HTML:     %s\n", *run.HTMLPath)
	}
	fmt.Fprintf(w, "ID:       %s\n", run.RunID.String())
	fmt.Fprintln(w)

	if len(records) == 0 {
		fmt.Fprintln(w, "No records.")
		return
	}

	fmt.Fprintf(w, "%-3s %s %s\n", "#", cell("TITLE", titleWidth), "PUBLISHED")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, record := range records {
		fmt.Fprintf(w, "%-3d %s %s\n", i+1, cell(record.Title, titleWidth), record.Published)
		fmt.Fprintf(w, "    %s\n", record.Link)
	}
}
