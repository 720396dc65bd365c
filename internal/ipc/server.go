package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"log/slog"

	"captive/internal/api"
	"captive/internal/daemon"
	"captive/internal/export"
	"captive/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Captive", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun captive daemon stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return logging.NewComponentLogger(s.logger, "ipc")
}

func (s *service) Start(req StartRequest, resp *StartResponse) error {
	s.log().Debug("session start requested")
	session, err := s.daemon.StartSession(s.ctx, daemon.SessionRequest{
		URL:      req.URL,
		Platform: req.Platform,
		Title:    req.Title,
	})
	if err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "capture session started"
	resp.Session = api.FromSession(session)
	s.log().Info("capture session started via IPC",
		logging.String(logging.FieldEventType, "session_start"),
		logging.String(logging.FieldSessionID, session.ID))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("session stop requested")
	session, err := s.daemon.StopSession(s.ctx)
	if err != nil {
		resp.Stopped = false
		resp.Message = err.Error()
		return nil
	}
	resp.Stopped = true
	resp.Message = "capture session stopped"
	resp.Session = api.FromSession(session)
	s.log().Info("capture session stopped via IPC",
		logging.String(logging.FieldEventType, "session_stop"),
		logging.String(logging.FieldSessionID, session.ID))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.DBPath = status.DBPath
	resp.LockPath = status.LockFilePath
	resp.Capture = api.FromCaptureStatus(status.Capture)
	resp.ScriberEnabled = status.Scriber
	if status.Session != nil {
		session := api.FromSession(status.Session)
		resp.Session = &session
	}
	return nil
}

func (s *service) SessionList(_ SessionListRequest, resp *SessionListResponse) error {
	sessions, err := s.daemon.Sessions(s.ctx)
	if err != nil {
		return err
	}
	resp.Sessions = api.FromSessions(sessions)
	return nil
}

func (s *service) SessionDescribe(req SessionDescribeRequest, resp *SessionDescribeResponse) error {
	if req.ID == "" {
		return errors.New("session id is required")
	}
	session, err := s.daemon.GetSession(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", req.ID)
	}
	resp.Session = api.FromSession(session)
	return nil
}

func (s *service) Transcript(req TranscriptRequest, resp *TranscriptResponse) error {
	tr, err := s.daemon.Transcript(s.ctx, req.SessionID)
	if err != nil {
		return err
	}
	resp.SessionID = tr.Session.ID
	resp.Captions = api.FromCaptions(tr.Captions)
	return nil
}

func (s *service) Export(req ExportRequest, resp *ExportResponse) error {
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return err
	}
	session, path, err := s.daemon.Export(s.ctx, req.SessionID, format)
	if err != nil {
		return err
	}
	resp.SessionID = session.ID
	resp.Format = string(format)
	resp.Path = path
	s.log().Info("transcript exported via IPC",
		logging.String(logging.FieldEventType, "session_export"),
		logging.String("path", path))
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health, err := s.daemon.DatabaseHealth(s.ctx)
	if err != nil && health.Error == "" {
		return err
	}
	resp.DBPath = health.DBPath
	resp.DatabaseReadable = health.DatabaseReadable
	resp.SchemaVersion = health.SchemaVersion
	resp.IntegrityCheck = health.IntegrityCheck
	resp.TotalSessions = health.TotalSessions
	resp.TotalCaptions = health.TotalCaptions
	resp.Error = health.Error
	return err
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}
