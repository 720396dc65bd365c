package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// CheckHealth returns diagnostic information about the session database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{
		DBPath:        s.path,
		SchemaVersion: fmt.Sprintf("%d", schemaVersion),
	}

	if s.path == "" {
		return health, errors.New("session database path is unknown")
	}

	if _, err := os.Stat(s.path); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("stat database: %w", err)
	}
	health.DatabaseReadable = true

	var integrity string
	if err := s.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&integrity); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrity, "ok")

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM sessions").Scan(&health.TotalSessions); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count sessions: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM captions").Scan(&health.TotalCaptions); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count captions: %w", err)
	}

	return health, nil
}
