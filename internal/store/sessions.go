package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const sessionColumns = `s.id, s.platform, s.title, s.started_at, s.ended_at,
    (SELECT COUNT(1) FROM captions c WHERE c.session_id = s.id)`

// CreateSession inserts a new session row marked as active.
func (s *Store) CreateSession(ctx context.Context, id, platform, title string) (*Session, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, platform, title, started_at, ended_at) VALUES (?, ?, ?, ?, NULL)`,
		id,
		platform,
		nullableString(title),
		now.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s.GetSession(ctx, id)
}

// EndSession stamps the session's end time. Ending an already ended
// session leaves the original end time in place.
func (s *Store) EndSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`,
		time.Now().UTC().Format(timeLayout),
		id,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if _, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("end session rows: %w", err)
	}
	return nil
}

// GetSession fetches a session by identifier, or nil when absent.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions s WHERE s.id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// ActiveSession returns the most recently started session without an end
// time, or nil when no session is running.
func (s *Store) ActiveSession(ctx context.Context) (*Session, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.ended_at IS NULL ORDER BY s.started_at DESC LIMIT 1`,
	)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active session: %w", err)
	}
	return session, nil
}

// ListSessions returns all sessions ordered by start time, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions s ORDER BY s.started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and, through the foreign key cascade,
// its captions.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
