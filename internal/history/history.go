// Package history persists an append-only record of apply runs in a SQLite
// database under the corpus system directory, so every mutation of the
// corpus stays auditable after the fact.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okranek/muninn/internal/corpus"
)

// Run is one recorded apply run.
type Run struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Planned    int       `json:"planned"`
	Executed   int       `json:"executed"`
	Blocked    int       `json:"blocked"`
	BackupID   string    `json:"backup_id,omitempty"`
	Outcome    string    `json:"outcome"` // terminal executor state
	Detail     string    `json:"detail,omitempty"`
}

// Store is the run-history database handle.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database in the corpus system directory.
func Open(root string) (*Store, error) {
	dbDir := filepath.Join(root, corpus.SystemDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", corpus.SystemDir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dbDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			planned INTEGER NOT NULL,
			executed INTEGER NOT NULL,
			blocked INTEGER NOT NULL,
			backup_id TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends a run.
func (s *Store) Record(run Run) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO runs (started_at, finished_at, planned, executed, blocked, backup_id, outcome, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Planned, run.Executed, run.Blocked,
		run.BackupID, run.Outcome, run.Detail,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, planned, executed, blocked, backup_id, outcome, detail
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Planned, &r.Executed, &r.Blocked, &r.BackupID, &r.Outcome, &r.Detail); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
