package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/hunter/internal/model"
)

// SQLiteStore records completed search runs in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// search_runs table exists. Missing parent directories are created.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS search_runs (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		keywords     TEXT    NOT NULL,
		location     TEXT    NOT NULL DEFAULT '',
		job_type     TEXT    NOT NULL DEFAULT '',
		total_found  INTEGER NOT NULL,
		unique_found INTEGER NOT NULL,
		elapsed_ms   INTEGER NOT NULL,
		degraded     INTEGER NOT NULL DEFAULT 0,
		slow_skipped INTEGER NOT NULL DEFAULT 0,
		created_at   INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating search_runs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// RecordRun stores one row summarizing res.
func (s *SQLiteStore) RecordRun(ctx context.Context, req model.SearchRequest, res model.AggregationResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_runs
			(keywords, location, job_type, total_found, unique_found, elapsed_ms, degraded, slow_skipped, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.Keywords, req.Location, req.JobType,
		res.TotalFound, res.UniqueFound, res.Elapsed.Milliseconds(),
		res.Degraded, res.SlowGroupSkipped, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("recording run for %q: %w", req.Keywords, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, keywords, location, job_type, total_found, unique_found, elapsed_ms, degraded, slow_skipped, created_at
		FROM search_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var (
			r                  model.RunRecord
			elapsedMs, created int64
		)
		if err := rows.Scan(&r.ID, &r.Keywords, &r.Location, &r.JobType, &r.TotalFound, &r.UniqueFound,
			&elapsedMs, &r.Degraded, &r.SlowSkipped, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		r.CreatedAt = time.UnixMilli(created)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Cleanup deletes runs older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	_, err := s.db.Exec("DELETE FROM search_runs WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up runs older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
