package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Session describes a capture session in a transport-friendly format.
type Session struct {
	ID           string `json:"id"`
	Platform     string `json:"platform"`
	Title        string `json:"title,omitempty"`
	StartedAt    string `json:"startedAt,omitempty"`
	EndedAt      string `json:"endedAt,omitempty"`
	Active       bool   `json:"active"`
	CaptionCount int    `json:"captionCount"`
}

// Caption is the transport representation of one caption event.
type Caption struct {
	SequenceIndex int    `json:"sequenceIndex"`
	Speaker       string `json:"speaker,omitempty"`
	Text          string `json:"text"`
	ObservedAt    string `json:"observedAt,omitempty"`
}

// CaptureStatus mirrors the capture controller's observable state.
type CaptureStatus struct {
	Capturing        bool   `json:"capturing"`
	SessionID        string `json:"sessionId,omitempty"`
	CaptionsDetected bool   `json:"captionsDetected"`
	CaptionCount     int    `json:"captionCount"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running        bool          `json:"running"`
	PID            int           `json:"pid"`
	DBPath         string        `json:"dbPath"`
	LockFilePath   string        `json:"lockFilePath"`
	Session        *Session      `json:"session,omitempty"`
	Capture        CaptureStatus `json:"capture"`
	ScriberEnabled bool          `json:"scriberEnabled"`
}

// SessionListResponse wraps a collection of sessions for API responses.
type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

// SessionResponse wraps a single session.
type SessionResponse struct {
	Session Session `json:"session"`
}

// TranscriptResponse carries a session's ordered captions.
type TranscriptResponse struct {
	SessionID string    `json:"sessionId"`
	Captions  []Caption `json:"transcript"`
}

// ExportResponse reports the location of a written transcript file.
type ExportResponse struct {
	SessionID string `json:"sessionId"`
	Format    string `json:"format"`
	Path      string `json:"path"`
}
