package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ocrprep/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the catalog database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the catalog database location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// StartRun inserts a new run record in the running state.
func (s *Store) StartRun(ctx context.Context, kind string) (*Run, error) {
	run := &Run{
		RunID:     uuid.NewString(),
		Kind:      kind,
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, kind, status, started_at) VALUES (?, ?, ?, ?)`,
		run.RunID, run.Kind, run.Status, run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	run.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read run id: %w", err)
	}
	return run, nil
}

// FinishRun marks a run completed and stores its counters.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	run.Status = StatusCompleted
	run.FinishedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, row_count = ?, train_rows = ?,
            eval_rows = ?, characters = ?, missing_images = ? WHERE run_id = ?`,
		run.Status, run.FinishedAt.Format(time.RFC3339Nano),
		run.Rows, run.TrainRows, run.EvalRows, run.Characters, run.MissingImages,
		run.RunID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", run.RunID, err)
	}
	return nil
}

// FailRun marks a run failed with the given error text.
func (s *Store) FailRun(ctx context.Context, run *Run, cause error) error {
	run.Status = StatusFailed
	run.FinishedAt = time.Now().UTC()
	if cause != nil {
		run.Error = cause.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, error = ? WHERE run_id = ?`,
		run.Status, run.FinishedAt.Format(time.RFC3339Nano), run.Error, run.RunID,
	)
	if err != nil {
		return fmt.Errorf("fail run %s: %w", run.RunID, err)
	}
	return nil
}

// RecordMissing stores the NFC paths of CSV-referenced images absent on disk.
func (s *Store) RecordMissing(ctx context.Context, runID string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin missing-image tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO missing_images (run_id, path) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare missing-image insert: %w", err)
	}
	defer stmt.Close()

	for _, path := range paths {
		if _, err := stmt.ExecContext(ctx, runID, path); err != nil {
			return fmt.Errorf("insert missing image %q: %w", path, err)
		}
	}
	return tx.Commit()
}

// MissingImages returns the recorded missing paths for a run, in insert order.
func (s *Store) MissingImages(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path FROM missing_images WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("query missing images: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan missing image: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// RecentRuns returns up to limit runs, most recent first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, kind, status, started_at, finished_at,
            row_count, train_rows, eval_rows, characters, missing_images, error
        FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.ID, &run.RunID, &run.Kind, &run.Status,
			&started, &finished, &run.Rows, &run.TrainRows, &run.EvalRows,
			&run.Characters, &run.MissingImages, &run.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse run start time: %w", err)
		}
		if finished.Valid && finished.String != "" {
			if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
				return nil, fmt.Errorf("parse run finish time: %w", err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
