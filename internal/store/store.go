package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"captive/internal/caption"
	"captive/internal/config"
)

// Store manages session and caption persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the session database and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath connects to the database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
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

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveCaption persists one finalized caption event. It satisfies the
// capture controller's sink contract.
func (s *Store) SaveCaption(ctx context.Context, event caption.Event) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO captions (session_id, sequence_index, speaker, text, observed_at)
         VALUES (?, ?, ?, ?, ?)`,
		event.SessionID,
		event.SequenceIndex,
		nullableString(event.Speaker),
		event.Text,
		event.Timestamp.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert caption: %w", err)
	}
	return nil
}
