// Package store persists documents and their imported files in a local
// SQLite database.
//
//	st, err := store.Open(cfg.Store.Path)
//	doc, err := st.Create(ctx, owner, "")
//	doc.Content = "1. first"
//	err = st.Save(ctx, &doc)
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kobzarvs/docassist/internal/logger"
)

// ErrNotFound is returned when a document or file id does not exist.
var ErrNotFound = errors.New("not found")

// Store is a handle on the document database. It is safe for concurrent
// use; all statements go through a single connection.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

type options struct {
	busyTimeout int
	now         func() time.Time
}

// Option customises Open.
type Option func(*options)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 5000.
func WithBusyTimeout(ms int) Option { return func(o *options) { o.busyTimeout = ms } }

// WithClock replaces time.Now for created/updated timestamps.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// Open opens (creating if needed) the database at path and migrates the
// schema. Use ":memory:" for a throwaway database.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{busyTimeout: 5000, now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	// Pragmas are per connection and ":memory:" is per connection too.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", o.busyTimeout),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}
	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	logger.Debug("store opened", "path", path)
	return &Store{db: db, now: o.now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			keywords_json TEXT NOT NULL DEFAULT '[]',
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(owner, updated_at_unixms);`,
		`CREATE TABLE IF NOT EXISTS related_files (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			format TEXT NOT NULL,
			content TEXT NOT NULL,
			read INTEGER NOT NULL DEFAULT 0,
			added_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_related_files_document ON related_files(document_id, position);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func unixMS(t time.Time) int64 {
	return t.UnixMilli()
}

func fromUnixMS(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
