// Package archive keeps a SQLite index of digest runs and the records each
// run produced.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/newsdigest/extract"
)

// ErrRunNotFound is returned when a run ID is not in the archive.
var ErrRunNotFound = errors.New("run not found")

// RunDateLayout is the layout of Run.RunDate.
const RunDateLayout = "2006-01-02"

// RunStore manages archived runs using SQLite.
type RunStore struct {
	db *sql.DB
}

// Run is one digest run of a source profile. A source has at most one run
// per day; re-running replaces it.
type Run struct {
	RunID       uuid.UUID `json:"run_id"`
	Source      string    `json:"source"`
	RunDate     string    `json:"run_date"`
	FetchedAt   time.Time `json:"fetched_at"`
	RecordCount int       `json:"record_count"`
	CSVPath     string    `json:"csv_path"`
	HTMLPath    *string   `json:"html_path,omitempty"`
}

// RunFilter represents filtering options for listing runs.
type RunFilter struct {
	Source *string // Filter by source profile name
	Limit  int     // Pagination limit
	Offset int     // Pagination offset
}

// NewRun creates a run for source fetched at fetchedAt, with a fresh ID.
func NewRun(source string, fetchedAt time.Time) *Run {
	return &Run{
		RunID:     uuid.New(),
		Source:    source,
		RunDate:   fetchedAt.Format(RunDateLayout),
		FetchedAt: fetchedAt,
	}
}

// NewRunStore creates a new run store with the given database path.
func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &RunStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the runs and records tables if they don't exist.
func (s *RunStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		run_date TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0,
		csv_path TEXT NOT NULL,
		html_path TEXT,
		UNIQUE (source, run_date)
	);

	CREATE TABLE IF NOT EXISTS records (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		published TEXT,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a run and its records. An existing run of the same source
// on the same day is replaced, records included. A nil RunID is assigned a
// fresh one and RecordCount is set from records.
func (s *RunStore) SaveRun(run *Run, records []extract.Record) error {
	if run.RunID == uuid.Nil {
		run.RunID = uuid.New()
	}
	if run.RunDate == "" {
		run.RunDate = run.FetchedAt.Format(RunDateLayout)
	}
	run.RecordCount = len(records)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var previousID string
	err = tx.QueryRow(
		"SELECT run_id FROM runs WHERE source = ? AND run_date = ?",
		run.Source, run.RunDate,
	).Scan(&previousID)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return fmt.Errorf("failed to query previous run: %w", err)
	default:
		if _, err := tx.Exec("DELETE FROM records WHERE run_id = ?", previousID); err != nil {
			return fmt.Errorf("failed to delete previous records: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM runs WHERE run_id = ?", previousID); err != nil {
			return fmt.Errorf("failed to delete previous run: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO runs (
			run_id, source, run_date, fetched_at, record_count, csv_path, html_path
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.RunID.String(),
		run.Source,
		run.RunDate,
		formatTime(run.FetchedAt),
		run.RecordCount,
		run.CSVPath,
		run.HTMLPath,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO records (run_id, position, title, link, published) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		var published *string
		if r.Published != "" {
			published = &r.Published
		}
		if _, err := stmt.Exec(run.RunID.String(), i, r.Title, r.Link, published); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(runID uuid.UUID) (*Run, error) {
	query := `
		SELECT run_id, source, run_date, fetched_at, record_count, csv_path, html_path
		FROM runs
		WHERE run_id = ?
	`

	run, err := scanRun(s.db.QueryRow(query, runID.String()))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	return run, nil
}

// ListRuns lists runs newest first with optional filtering.
func (s *RunStore) ListRuns(filter RunFilter) ([]Run, error) {
	query := `
		SELECT run_id, source, run_date, fetched_at, record_count, csv_path, html_path
		FROM runs
	`

	var whereClauses []string
	var args []any

	if filter.Source != nil {
		whereClauses = append(whereClauses, "source = ?")
		args = append(args, *filter.Source)
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY run_date DESC, fetched_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite requires a LIMIT before OFFSET
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// ListRecords returns the records of a run in extraction order.
func (s *RunStore) ListRecords(runID uuid.UUID) ([]extract.Record, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT title, link, published FROM records WHERE run_id = ? ORDER BY position",
		runID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []extract.Record{}
	for rows.Next() {
		var r extract.Record
		var published sql.NullString
		if err := rows.Scan(&r.Title, &r.Link, &published); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Published = published.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var runIDStr, source, runDate, fetchedAtStr, csvPath string
	var recordCount int
	var htmlPath sql.NullString

	err := row.Scan(&runIDStr, &source, &runDate, &fetchedAtStr, &recordCount, &csvPath, &htmlPath)
	if err != nil {
		return nil, err
	}

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run ID: %w", err)
	}

	run := &Run{
		RunID:       runID,
		Source:      source,
		RunDate:     runDate,
		FetchedAt:   parseTime(fetchedAtStr),
		RecordCount: recordCount,
		CSVPath:     csvPath,
	}
	if htmlPath.Valid {
		run.HTMLPath = &htmlPath.String
	}

	return run, nil
}

// storedTimeLayout is fixed-width and always UTC, so stored times sort
// correctly as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

// Helper functions for time formatting
func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseTime(s string) time.Time {
	// Older rows were written as RFC3339Nano with their local offset
	t, err := time.Parse(storedTimeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t.Truncate(0)
}
