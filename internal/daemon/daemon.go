package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"captive/internal/capture"
	"captive/internal/config"
	"captive/internal/dom"
	"captive/internal/logging"
	"captive/internal/notifications"
	"captive/internal/platform"
	"captive/internal/scriber"
	"captive/internal/store"
)

// CaptionSource is the browser-facing surface the daemon drives: snapshot
// extraction, mutation notifications, and page lifecycle.
type CaptionSource interface {
	capture.Snapshotter
	Mutations() <-chan struct{}
	Navigate(url string) error
	WatchCaptions() error
	Close()
}

// SourceFactory builds a caption source for a platform. The default factory
// attaches to or launches a browser; tests substitute fakes.
type SourceFactory func(cfg *config.Config, p platform.Platform, logger *slog.Logger) (CaptionSource, error)

func defaultSourceFactory(cfg *config.Config, p platform.Platform, logger *slog.Logger) (CaptionSource, error) {
	return dom.New(cfg, p, logger)
}

// Daemon coordinates capture sessions and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	notifier  notifications.Service
	scriber   *scriber.Client
	newSource SourceFactory

	logPath  string
	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	api     *apiServer

	mu         sync.Mutex
	source     CaptionSource
	controller *capture.Controller
	session    *store.Session
	mirror     *scriberMirror
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DBPath       string
	LockFilePath string
	Session      *store.Session
	Capture      capture.Status
	Scriber      bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "captived.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     st,
		notifier:  notifications.NewService(cfg),
		scriber:   scriber.New(cfg),
		newSource: defaultSourceFactory,
		logPath:   filepath.Join(cfg.Paths.LogDir, "captive.log"),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = srv
	return d, nil
}

// SetSourceFactory overrides how caption sources are created. Call before
// any session starts.
func (d *Daemon) SetSourceFactory(f SourceFactory) {
	if f != nil {
		d.newSource = f
	}
}

// Start acquires the daemon lock and brings up the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another captive daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if d.api != nil {
		if err := d.api.start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("captive daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop ends any active session, shuts the API down, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if _, err := d.StopSession(context.Background()); err != nil && !errors.Is(err, ErrNoActiveSession) {
		d.logger.Warn("failed to stop session during shutdown", logging.Error(err))
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("captive daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	d.mu.Lock()
	session := d.session
	controller := d.controller
	d.mu.Unlock()

	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DBPath:       d.store.Path(),
		LockFilePath: d.lockPath,
		Session:      session,
		Scriber:      d.scriber.Enabled(),
	}
	if controller != nil {
		status.Capture = controller.Status()
	}
	if session != nil {
		if fresh, err := d.store.GetSession(ctx, session.ID); err == nil && fresh != nil {
			status.Session = fresh
		}
	}
	return status
}

// Sessions lists all persisted sessions, newest first.
func (d *Daemon) Sessions(ctx context.Context) ([]*store.Session, error) {
	return d.store.ListSessions(ctx)
}

// GetSession fetches one session by id.
func (d *Daemon) GetSession(ctx context.Context, id string) (*store.Session, error) {
	return d.store.GetSession(ctx, id)
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (store.DatabaseHealth, error) {
	return d.store.CheckHealth(ctx)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}
