// Package store keeps run history in a SQLite database. Each run is stored
// as a JSON document next to a few columns used for listing.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/qualcode/internal/apperr"
	"github.com/ppiankov/qualcode/internal/model"
)

// Store is the run history database
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path with WAL enabled
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer; keeps :memory: databases on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	document_count INTEGER NOT NULL,
	has_ai INTEGER NOT NULL DEFAULT 0,
	data TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveRun inserts or replaces a run
func (s *Store) SaveRun(ctx context.Context, run *model.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run has no ID")
	}
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO runs (id, title, created_at, document_count, has_ai, data)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	created_at = excluded.created_at,
	document_count = excluded.document_count,
	has_ai = excluded.has_ai,
	data = excluded.data`,
		run.ID,
		run.Title,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		len(run.Result.Documents),
		boolToInt(run.AI != nil),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun loads a run by ID; a missing run is apperr.ErrRunNotFound
func (s *Store) GetRun(ctx context.Context, id string) (*model.Run, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM runs WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperr.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	var run model.Run
	if err := json.Unmarshal([]byte(data), &run); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns the newest runs first; limit <= 0 returns all
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.RunInfo, error) {
	query := `SELECT id, title, created_at, document_count, has_ai FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []model.RunInfo{}
	for rows.Next() {
		var (
			info      model.RunInfo
			createdAt string
			hasAI     int
		)
		if err := rows.Scan(&info.ID, &info.Title, &createdAt, &info.DocumentCount, &hasAI); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", info.ID, err)
		}
		info.HasAI = hasAI != 0
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run; a missing run is apperr.ErrRunNotFound
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrRunNotFound, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
