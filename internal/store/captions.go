package store

import (
	"context"
	"fmt"
)

// Captions returns all captions for a session in sequence order.
func (s *Store) Captions(ctx context.Context, sessionID string) ([]*Caption, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, session_id, sequence_index, speaker, text, observed_at
         FROM captions WHERE session_id = ? ORDER BY sequence_index`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query captions: %w", err)
	}
	defer rows.Close()

	var captions []*Caption
	for rows.Next() {
		entry, err := scanCaption(rows)
		if err != nil {
			return nil, err
		}
		captions = append(captions, entry)
	}
	return captions, rows.Err()
}

// CaptionCount returns the number of captions persisted for a session.
func (s *Store) CaptionCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM captions WHERE session_id = ?`,
		sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count captions: %w", err)
	}
	return count, nil
}

// Speakers returns the distinct attributed speakers for a session, in
// order of first appearance. Unattributed captions are skipped.
func (s *Store) Speakers(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT speaker, MIN(sequence_index) AS first_seen
         FROM captions
         WHERE session_id = ? AND speaker IS NOT NULL
         GROUP BY speaker ORDER BY first_seen`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query speakers: %w", err)
	}
	defer rows.Close()

	var speakers []string
	for rows.Next() {
		var speaker string
		var firstSeen int
		if err := rows.Scan(&speaker, &firstSeen); err != nil {
			return nil, err
		}
		speakers = append(speakers, speaker)
	}
	return speakers, rows.Err()
}
