package api

import (
	"captive/internal/capture"
	"captive/internal/store"
)

// FromSession converts a stored session to its API representation.
func FromSession(session *store.Session) Session {
	if session == nil {
		return Session{}
	}
	dto := Session{
		ID:           session.ID,
		Platform:     session.Platform,
		Title:        session.Title,
		Active:       session.Active(),
		CaptionCount: session.CaptionCount,
	}
	if !session.StartedAt.IsZero() {
		dto.StartedAt = session.StartedAt.UTC().Format(dateTimeFormat)
	}
	if session.EndedAt != nil {
		dto.EndedAt = session.EndedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromSessions converts a session list, skipping nil entries.
func FromSessions(sessions []*store.Session) []Session {
	out := make([]Session, 0, len(sessions))
	for _, session := range sessions {
		if session == nil {
			continue
		}
		out = append(out, FromSession(session))
	}
	return out
}

// FromCaption converts a stored caption row to its API representation.
func FromCaption(entry *store.Caption) Caption {
	if entry == nil {
		return Caption{}
	}
	dto := Caption{
		SequenceIndex: entry.SequenceIndex,
		Speaker:       entry.Speaker,
		Text:          entry.Text,
	}
	if !entry.ObservedAt.IsZero() {
		dto.ObservedAt = entry.ObservedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromCaptions converts a caption list, skipping nil entries.
func FromCaptions(captions []*store.Caption) []Caption {
	out := make([]Caption, 0, len(captions))
	for _, entry := range captions {
		if entry == nil {
			continue
		}
		out = append(out, FromCaption(entry))
	}
	return out
}

// FromCaptureStatus converts the controller's status report.
func FromCaptureStatus(status capture.Status) CaptureStatus {
	return CaptureStatus{
		Capturing:        status.Capturing,
		SessionID:        status.SessionID,
		CaptionsDetected: status.CaptionsDetected,
		CaptionCount:     status.CaptionCount,
	}
}
