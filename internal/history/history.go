package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// Entry is one recorded invocation.
type Entry struct {
	ID         int64
	Source     string
	Query      string
	Digest     string
	CacheHit   bool
	DurationMS int64
	RunAt      time.Time
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
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

func (s *Store) applyMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if _, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS invocations (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    source       TEXT NOT NULL,
    query        TEXT NOT NULL,
    digest       TEXT NOT NULL,
    cache_hit    INTEGER NOT NULL,
    duration_ms  INTEGER NOT NULL,
    run_at       TEXT NOT NULL
)`); err != nil {
			return fmt.Errorf("create invocations: %w", err)
		}
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	}
	return nil
}

// Record inserts one invocation row.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	runAt := entry.RunAt
	if runAt.IsZero() {
		runAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO invocations (source, query, digest, cache_hit, duration_ms, run_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Source,
		entry.Query,
		entry.Digest,
		boolToInt(entry.CacheHit),
		entry.DurationMS,
		runAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

// List returns the most recent invocations, newest first. A limit of 0
// or less returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `
SELECT id, source, query, digest, cache_hit, duration_ms, run_at
FROM invocations ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var hit int
		var runAt string
		if err := rows.Scan(&entry.ID, &entry.Source, &entry.Query, &entry.Digest, &hit, &entry.DurationMS, &runAt); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		entry.CacheHit = hit != 0
		if parsed, err := time.Parse(time.RFC3339Nano, runAt); err == nil {
			entry.RunAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invocations: %w", err)
	}
	return entries, nil
}

// Clear removes all recorded invocations and reports how many were
// deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM invocations")
	if err != nil {
		return 0, fmt.Errorf("clear invocations: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
