package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"captive/internal/api"
	"captive/internal/config"
	"captive/internal/export"
	"captive/internal/logging"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	token := strings.TrimSpace(cfg.Paths.APIToken)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", authMiddleware(token, srv.handleStatus))
	mux.HandleFunc("/api/start", authMiddleware(token, srv.handleStart))
	mux.HandleFunc("/api/stop", authMiddleware(token, srv.handleStop))
	mux.HandleFunc("/api/sessions", authMiddleware(token, srv.handleSessions))
	mux.HandleFunc("/api/transcript", authMiddleware(token, srv.handleTranscript))
	mux.HandleFunc("/api/export", authMiddleware(token, srv.handleExport))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address, or "" before start.
func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	payload := api.DaemonStatus{
		Running:        status.Running,
		PID:            status.PID,
		DBPath:         status.DBPath,
		LockFilePath:   status.LockFilePath,
		Capture:        api.FromCaptureStatus(status.Capture),
		ScriberEnabled: status.Scriber,
	}
	if status.Session != nil {
		session := api.FromSession(status.Session)
		payload.Session = &session
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		URL      string `json:"url"`
		Platform string `json:"platform"`
		Title    string `json:"title"`
	}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	session, err := s.daemon.StartSession(r.Context(), SessionRequest{
		URL:      body.URL,
		Platform: body.Platform,
		Title:    body.Title,
	})
	if err != nil {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.SessionResponse{Session: api.FromSession(session)})
}

func (s *apiServer) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	session, err := s.daemon.StopSession(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoActiveSession) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.SessionResponse{Session: api.FromSession(session)})
}

func (s *apiServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessions, err := s.daemon.Sessions(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.SessionListResponse{Sessions: api.FromSessions(sessions)})
}

func (s *apiServer) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	tr, err := s.daemon.Transcript(r.Context(), r.URL.Query().Get("session"))
	if err != nil {
		if errors.Is(err, ErrNoActiveSession) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.TranscriptResponse{
		SessionID: tr.Session.ID,
		Captions:  api.FromCaptions(tr.Captions),
	})
}

func (s *apiServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID := r.URL.Query().Get("session")
	session, path, err := s.daemon.Export(r.Context(), sessionID, format)
	if err != nil {
		if errors.Is(err, ErrNoActiveSession) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.ExportResponse{
		SessionID: session.ID,
		Format:    string(format),
		Path:      path,
	})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return logging.NewComponentLogger(s.logger, "api-server")
	}
	return logging.NewNop()
}
