// Package report writes the dated CSV and HTML digests for a run.
package report

import (
	"bytes"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/pevans/newsdigest/extract"
)

// DateLayout is the date format used in report filenames and date cells.
const DateLayout = "2006-01-02"

//go:embed templates/digest.html.tmpl
var templateFS embed.FS

var digestTemplate = template.Must(template.ParseFS(templateFS, "templates/digest.html.tmpl"))

// Writer writes reports into a single output directory.
type Writer struct {
	dir string
}

// NewWriter creates a report writer, creating the output directory if it
// doesn't exist.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Writer{
		dir: dir,
	}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the report path for a prefix, day and extension, e.g.
// <dir>/news_2026-10-16.csv.
func (w *Writer) Path(prefix string, day time.Time, ext string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_%s.%s", prefix, day.Format(DateLayout), ext))
}

// WriteCSV writes the records as <prefix>_<day>.csv with the header
// Title,Link,<dateColumn>. A record without a publish date gets the run day
// in its date cell. An existing file for the same day is overwritten.
func (w *Writer) WriteCSV(prefix string, day time.Time, dateColumn string, records []extract.Record) (string, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.UseCRLF = true

	if err := cw.Write([]string{"Title", "Link", dateColumn}); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	dayText := day.Format(DateLayout)
	for _, r := range records {
		date := r.Published
		if date == "" {
			date = dayText
		}
		if err := cw.Write([]string{r.Title, r.Link, date}); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}

	path := w.Path(prefix, day, "csv")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write CSV report: %w", err)
	}

	return path, nil
}

// digestRow is one table row of the HTML digest.
type digestRow struct {
	Index int
	Title string
	Link  string
	Date  string
}

// digestPage is the data the HTML template renders.
type digestPage struct {
	Title       string
	Date        string
	GeneratedAt string
	Rows        []digestRow
}

// WriteHTML writes the records as a styled <prefix>_<day>.html digest.
// Titles and links are escaped by html/template.
func (w *Writer) WriteHTML(prefix string, day time.Time, title string, records []extract.Record) (string, error) {
	page := digestPage{
		Title:       title,
		Date:        day.Format(DateLayout),
		GeneratedAt: day.Format("2006-01-02 15:04:05"),
		Rows:        make([]digestRow, 0, len(records)),
	}
	for i, r := range records {
		page.Rows = append(page.Rows, digestRow{
			Index: i + 1,
			Title: r.Title,
			Link:  r.Link,
			Date:  r.Published,
		})
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}

	path := w.Path(prefix, day, "html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write HTML report: %w", err)
	}

	return path, nil
}
