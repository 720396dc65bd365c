package ipc

import "captive/internal/api"

// Session mirrors the HTTP API session DTO for internal IPC callers.
type Session = api.Session

// Caption mirrors the HTTP API caption DTO for internal IPC callers.
type Caption = api.Caption

// CaptureStatus mirrors the capture controller status DTO.
type CaptureStatus = api.CaptureStatus

// StartRequest begins a capture session.
type StartRequest struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
	Title    string `json:"title"`
}

// StartResponse indicates whether a session was started.
type StartResponse struct {
	Started bool    `json:"started"`
	Message string  `json:"message"`
	Session Session `json:"session"`
}

// StopRequest ends the active capture session.
type StopRequest struct{}

// StopResponse indicates stop result and the finished session.
type StopResponse struct {
	Stopped bool    `json:"stopped"`
	Message string  `json:"message"`
	Session Session `json:"session"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/capture status information.
type StatusResponse struct {
	Running        bool          `json:"running"`
	PID            int           `json:"pid"`
	DBPath         string        `json:"db_path"`
	LockPath       string        `json:"lock_path"`
	Session        *Session      `json:"session,omitempty"`
	Capture        CaptureStatus `json:"capture"`
	ScriberEnabled bool          `json:"scriber_enabled"`
}

// SessionListRequest lists persisted sessions.
type SessionListRequest struct{}

// SessionListResponse contains session summaries, newest first.
type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

// SessionDescribeRequest fetches a single session by id.
type SessionDescribeRequest struct {
	ID string `json:"id"`
}

// SessionDescribeResponse contains one session.
type SessionDescribeResponse struct {
	Session Session `json:"session"`
}

// TranscriptRequest fetches a session's captions. An empty id resolves to
// the active session, falling back to the most recent one.
type TranscriptRequest struct {
	SessionID string `json:"session_id"`
}

// TranscriptResponse carries ordered captions.
type TranscriptResponse struct {
	SessionID string    `json:"session_id"`
	Captions  []Caption `json:"captions"`
}

// ExportRequest writes a transcript file.
type ExportRequest struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
}

// ExportResponse reports the exported file path.
type ExportResponse struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
	Path      string `json:"path"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string `json:"db_path"`
	DatabaseReadable bool   `json:"database_readable"`
	SchemaVersion    string `json:"schema_version"`
	IntegrityCheck   bool   `json:"integrity_check"`
	TotalSessions    int    `json:"total_sessions"`
	TotalCaptions    int    `json:"total_captions"`
	Error            string `json:"error"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
