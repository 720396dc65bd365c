package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const timeLayout = time.RFC3339Nano

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(scanner rowScanner) (*Session, error) {
	var (
		session    Session
		title      sql.NullString
		startedRaw string
		endedRaw   sql.NullString
	)
	if err := scanner.Scan(&session.ID, &session.Platform, &title, &startedRaw, &endedRaw, &session.CaptionCount); err != nil {
		return nil, err
	}
	session.Title = title.String

	started, err := parseTimeString(startedRaw)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	session.StartedAt = started

	if endedRaw.Valid {
		if ended, err := parseTimeString(endedRaw.String); err == nil {
			session.EndedAt = &ended
		}
	}
	return &session, nil
}

func scanCaption(scanner rowScanner) (*Caption, error) {
	var (
		entry       Caption
		speaker     sql.NullString
		observedRaw string
	)
	if err := scanner.Scan(&entry.ID, &entry.SessionID, &entry.SequenceIndex, &speaker, &entry.Text, &observedRaw); err != nil {
		return nil, err
	}
	entry.Speaker = speaker.String

	observed, err := parseTimeString(observedRaw)
	if err != nil {
		return nil, fmt.Errorf("parse observed_at: %w", err)
	}
	entry.ObservedAt = observed
	return &entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
