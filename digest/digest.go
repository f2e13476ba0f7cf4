// Package digest runs the fetch, extract and report pipeline for source
// profiles.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/newsdigest/archive"
	"github.com/pevans/newsdigest/extract"
	"github.com/pevans/newsdigest/report"
	"github.com/pevans/newsdigest/sources"
)

// ErrFetchFailed marks runs that stopped because the source could not be
// fetched or parsed. No reports are written for such runs.
var ErrFetchFailed = errors.New("fetch failed")

// DocumentFetcher retrieves a source document.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url, format string) (*extract.Document, error)
}

// RunArchiver records finished runs.
type RunArchiver interface {
	SaveRun(run *archive.Run, records []extract.Record) error
}

// Runner runs source profiles.
type Runner struct {
	fetcher  DocumentFetcher
	writer   *report.Writer
	archiver RunArchiver
	log      *slog.Logger
}

// Result describes one completed run.
type Result struct {
	Profile  sources.Profile
	Date     string
	Records  []extract.Record
	CSVPath  string
	HTMLPath string
	// RunID is uuid.Nil when no archive is configured.
	RunID uuid.UUID
}

// Failure records a profile whose run returned an error.
type Failure struct {
	Profile sources.Profile
	Err     error
}

// Summary collects the outcome of RunAll.
type Summary struct {
	Results  []*Result
	Failures []Failure
}

// NewRunner creates a runner. archiver may be nil to skip archiving; log may
// be nil to use slog.Default().
func NewRunner(fetcher DocumentFetcher, writer *report.Writer, archiver RunArchiver, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		fetcher:  fetcher,
		writer:   writer,
		archiver: archiver,
		log:      log,
	}
}

// Run fetches the profile's source, extracts its records and writes the
// dated reports for now's day. When the fetch fails nothing is written. When
// the HTML digest cannot be written the run's CSV is removed again, so a
// failed run leaves no reports behind. An archive failure is returned along
// with the result, after both reports are on disk.
func (r *Runner) Run(ctx context.Context, profile sources.Profile, now time.Time) (*Result, error) {
	log := r.log.With("source", profile.Name)

	rule, err := profile.Rule.Rule()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", profile.Name, err)
	}

	log.Info("fetching source", "url", profile.URL)
	doc, err := r.fetcher.Fetch(ctx, profile.URL, profile.Format)
	if err != nil {
		log.Error("fetch failed", "url", profile.URL, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, profile.Name, err)
	}

	records := extract.Extract(doc, rule, profile.Cap)
	if len(records) == 0 {
		log.Warn("no records extracted, writing header-only report", "rule", profile.Rule.String())
	} else {
		log.Info("records extracted", "count", len(records), "cap", profile.Cap)
	}

	result := &Result{
		Profile: profile,
		Date:    now.Format(report.DateLayout),
		Records: records,
	}

	result.CSVPath, err = r.writer.WriteCSV(profile.Prefix, now, profile.DateColumn, records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", profile.Name, err)
	}
	log.Info("CSV report written", "path", result.CSVPath)

	if profile.WriteHTML {
		result.HTMLPath, err = r.writer.WriteHTML(profile.Prefix, now, profile.Title, records)
		if err != nil {
			if rmErr := os.Remove(result.CSVPath); rmErr != nil {
				log.Warn("failed to remove CSV report", "path", result.CSVPath, "error", rmErr)
			}
			return nil, fmt.Errorf("%s: %w", profile.Name, err)
		}
		log.Info("HTML report written", "path", result.HTMLPath)
	}

	if r.archiver != nil {
		run := archive.NewRun(profile.Name, now)
		run.CSVPath = result.CSVPath
		if result.HTMLPath != "" {
			run.HTMLPath = &result.HTMLPath
		}
		if err := r.archiver.SaveRun(run, records); err != nil {
			return result, fmt.Errorf("%s: failed to archive run: %w", profile.Name, err)
		}
		result.RunID = run.RunID
		log.Debug("run archived", "run_id", run.RunID)
	}

	return result, nil
}

// RunAll runs each profile in turn. A failing profile does not stop the
// ones after it.
func (r *Runner) RunAll(ctx context.Context, profiles []sources.Profile, now time.Time) *Summary {
	summary := &Summary{}
	for _, profile := range profiles {
		if err := ctx.Err(); err != nil {
			summary.Failures = append(summary.Failures, Failure{Profile: profile, Err: err})
			continue
		}

		result, err := r.Run(ctx, profile, now)
		if err != nil {
			summary.Failures = append(summary.Failures, Failure{Profile: profile, Err: err})
			continue
		}
		summary.Results = append(summary.Results, result)
	}
	return summary
}
