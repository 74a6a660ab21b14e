// Package state records build outcomes per version in a SQLite database, so
// repeated runs can skip versions that already converted successfully.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/texsite/texsite/internal/errors"
)

// BuildRecord is the stored outcome of one version build.
type BuildRecord struct {
	BuildID    string
	Version    string
	Success    bool
	FilesTotal int
	FilesOK    int
	Error      string
	FinishedAt time.Time
}

// Store persists build records.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the build state database. Use ":memory:" for an
// in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.StateError("open", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.StateError("initialize", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		version TEXT NOT NULL,
		success INTEGER NOT NULL,
		files_total INTEGER NOT NULL,
		files_ok INTEGER NOT NULL,
		error TEXT,
		finished_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_version ON builds(version);
	CREATE INDEX IF NOT EXISTS idx_builds_finished_at ON builds(finished_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends the outcome of one version build.
func (s *Store) Record(ctx context.Context, r BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, version, success, files_total, files_ok, error, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.BuildID, r.Version, boolToInt(r.Success), r.FilesTotal, r.FilesOK, r.Error, r.FinishedAt.Unix(),
	)
	if err != nil {
		return errors.StateError("record", err)
	}
	return nil
}

// Latest returns the most recent record of a version, or ok=false when the
// version was never built.
func (s *Store) Latest(ctx context.Context, version string) (BuildRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT build_id, version, success, files_total, files_ok, error, finished_at FROM builds WHERE version = ? ORDER BY id DESC LIMIT 1",
		version,
	)

	var r BuildRecord
	var success int
	var finished int64
	err := row.Scan(&r.BuildID, &r.Version, &success, &r.FilesTotal, &r.FilesOK, &r.Error, &finished)
	if err == sql.ErrNoRows {
		return BuildRecord{}, false, nil
	}
	if err != nil {
		return BuildRecord{}, false, errors.StateError("query", err)
	}
	r.Success = success != 0
	r.FinishedAt = time.Unix(finished, 0)
	return r, true, nil
}

// Built reports whether the version has a successful build on record.
func (s *Store) Built(ctx context.Context, version string) (bool, error) {
	r, ok, err := s.Latest(ctx, version)
	if err != nil {
		return false, err
	}
	return ok && r.Success, nil
}

// History returns all records of a version, newest first.
func (s *Store) History(ctx context.Context, version string) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, version, success, files_total, files_ok, error, finished_at FROM builds WHERE version = ? ORDER BY id DESC",
		version,
	)
	if err != nil {
		return nil, errors.StateError("query", err)
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var r BuildRecord
		var success int
		var finished int64
		if err := rows.Scan(&r.BuildID, &r.Version, &success, &r.FilesTotal, &r.FilesOK, &r.Error, &finished); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		r.Success = success != 0
		r.FinishedAt = time.Unix(finished, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
