package store

import "time"

// Session represents one capture run persisted in SQLite.
type Session struct {
	ID           string
	Platform     string
	Title        string
	StartedAt    time.Time
	EndedAt      *time.Time
	CaptionCount int
}

// Active reports whether the session is still running.
func (s *Session) Active() bool {
	return s != nil && s.EndedAt == nil
}

// Duration returns the session length. Active sessions are measured
// against the current time.
func (s *Session) Duration() time.Duration {
	if s == nil || s.StartedAt.IsZero() {
		return 0
	}
	end := time.Now().UTC()
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}

// Caption is one persisted caption row.
type Caption struct {
	ID            int64
	SessionID     string
	SequenceIndex int
	Speaker       string
	Text          string
	ObservedAt    time.Time
}

// DatabaseHealth captures diagnostic information about the session database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseReadable bool
	SchemaVersion    string
	IntegrityCheck   bool
	TotalSessions    int
	TotalCaptions    int
	Error            string
}
