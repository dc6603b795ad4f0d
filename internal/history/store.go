// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists past search runs in a SQLite database so the
// history subcommand can list what was searched and when.
// See docs/ARCHITECTURE § Run History.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/keyword-search/pkg/types"
)

const dbFile = "history.db"

// Store manages the run history SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one recorded search run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Succeeded  int
	Failed     int
	Aborted    bool
	OutputFile string
}

// Open opens or creates the history database under dir, creating the
// schema if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			total INTEGER NOT NULL,
			succeeded INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			aborted INTEGER NOT NULL DEFAULT 0,
			output_file TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			keyword TEXT NOT NULL,
			title TEXT,
			url TEXT,
			snippet TEXT,
			searched_at TEXT,
			status TEXT NOT NULL,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun records a run and its per-keyword results in one transaction
// and returns the new run ID.
func (s *Store) SaveRun(ctx context.Context, run Run, results []types.SearchResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, total, succeeded, failed, aborted, output_file)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339),
		run.FinishedAt.Format(time.RFC3339),
		run.Total, run.Succeeded, run.Failed, boolToInt(run.Aborted), run.OutputFile)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, position, keyword, title, url, snippet, searched_at, status, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		_, err := stmt.ExecContext(ctx, runID, i+1, r.Keyword, r.Title, r.URL, r.Snippet,
			r.Timestamp.Format(time.RFC3339), string(r.Status), string(r.Reason))
		if err != nil {
			return 0, fmt.Errorf("inserting result %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, total, succeeded, failed, aborted, output_file
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		var aborted int
		var outputFile sql.NullString
		if err := rows.Scan(&r.ID, &started, &finished, &r.Total, &r.Succeeded, &r.Failed, &aborted, &outputFile); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		r.Aborted = aborted != 0
		r.OutputFile = outputFile.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults returns the result rows for one run, in keyword order.
func (s *Store) RunResults(ctx context.Context, runID int64) ([]types.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT keyword, title, url, snippet, searched_at, status, reason
		 FROM results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []types.SearchResult
	for rows.Next() {
		var r types.SearchResult
		var searchedAt, status, reason string
		if err := rows.Scan(&r.Keyword, &r.Title, &r.URL, &r.Snippet, &searchedAt, &status, &reason); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, searchedAt)
		r.Status = types.ResultStatus(status)
		r.Reason = types.FailureReason(reason)
		results = append(results, r)
	}
	return results, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
