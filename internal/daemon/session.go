package daemon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"captive/internal/capture"
	"captive/internal/export"
	"captive/internal/logging"
	"captive/internal/platform"
	"captive/internal/store"
)

// ErrNoActiveSession is returned when an operation needs a running capture
// session and none exists.
var ErrNoActiveSession = errors.New("no active capture session")

// SessionRequest describes how a capture session should start. An empty
// Platform falls back to the configured default; an empty URL means the
// browser is already on the target page.
type SessionRequest struct {
	URL      string
	Platform string
	Title    string
}

// StartSession opens the caption source and begins capturing. Only one
// session may run at a time.
func (d *Daemon) StartSession(ctx context.Context, req SessionRequest) (*store.Session, error) {
	if !d.running.Load() {
		return nil, errors.New("daemon is not running")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session != nil {
		return nil, fmt.Errorf("capture session %s already running", d.session.ID)
	}

	platformName := strings.TrimSpace(req.Platform)
	if platformName == "" {
		platformName = d.cfg.Capture.Platform
	}
	plat, err := platform.Parse(platformName)
	if err != nil {
		return nil, err
	}

	source, err := d.newSource(d.cfg, plat, d.logger)
	if err != nil {
		return nil, fmt.Errorf("open caption source: %w", err)
	}

	if url := strings.TrimSpace(req.URL); url != "" {
		if err := source.Navigate(url); err != nil {
			source.Close()
			return nil, err
		}
	}
	if err := source.WatchCaptions(); err != nil {
		// Polling still observes the page; mutation delivery is an
		// optimization, not a requirement.
		d.logger.Warn("mutation observation unavailable, relying on polling",
			logging.Error(err),
			logging.String(logging.FieldPlatform, string(plat)),
		)
	}

	sessionID := uuid.NewString()
	session, err := d.store.CreateSession(ctx, sessionID, string(plat), strings.TrimSpace(req.Title))
	if err != nil {
		source.Close()
		return nil, err
	}

	controller := capture.NewController(d.cfg, plat, source, source.Mutations(), d.store, d.logger)
	if err := controller.Start(d.ctx, sessionID); err != nil {
		source.Close()
		return nil, err
	}

	d.source = source
	d.controller = controller
	d.session = session

	if d.scriber.Enabled() {
		if err := d.scriber.Start(ctx, session.Title); err != nil {
			d.logger.Warn("scriber start failed", logging.Error(err))
		} else {
			d.mirror = newScriberMirror(d.scriber, d.store, d.logger, sessionID, d.cfg.Scriber.PollInterval)
			d.mirror.start(d.ctx)
		}
	}
	if err := d.notifier.NotifySessionStarted(ctx, sessionID, string(plat)); err != nil {
		d.logger.Warn("session start notification failed", logging.Error(err))
	}

	return session, nil
}

// StopSession halts capture, stamps the session end, and tears the caption
// source down. The finished session is returned.
func (d *Daemon) StopSession(ctx context.Context) (*store.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return nil, ErrNoActiveSession
	}

	session := d.session
	controller := d.controller
	source := d.source
	mirror := d.mirror
	d.session = nil
	d.controller = nil
	d.source = nil
	d.mirror = nil

	controller.Stop()
	captured := controller.Status().CaptionCount

	if err := d.store.EndSession(ctx, session.ID); err != nil {
		d.logger.Warn("failed to stamp session end", logging.Error(err),
			logging.String(logging.FieldSessionID, session.ID))
	}
	source.Close()

	if d.scriber.Enabled() {
		if err := d.scriber.Stop(ctx); err != nil {
			d.logger.Warn("scriber stop failed", logging.Error(err))
		}
	}
	if mirror != nil {
		captured += mirror.stop(ctx, captured)
	}

	finished, err := d.store.GetSession(ctx, session.ID)
	if err != nil || finished == nil {
		finished = session
	}

	duration := time.Duration(0)
	if finished.EndedAt != nil {
		duration = finished.EndedAt.Sub(finished.StartedAt)
	}
	if err := d.notifier.NotifySessionEnded(ctx, session.ID, captured, duration); err != nil {
		d.logger.Warn("session end notification failed", logging.Error(err))
	}

	return finished, nil
}

// Transcript assembles the captions for a session. An empty id resolves to
// the active session, falling back to the most recent one.
func (d *Daemon) Transcript(ctx context.Context, sessionID string) (export.Transcript, error) {
	session, err := d.resolveSession(ctx, sessionID)
	if err != nil {
		return export.Transcript{}, err
	}
	captions, err := d.store.Captions(ctx, session.ID)
	if err != nil {
		return export.Transcript{}, err
	}
	return export.Transcript{Session: session, Captions: captions}, nil
}

// Export writes a session transcript to the export directory and returns
// the resolved session along with the file path.
func (d *Daemon) Export(ctx context.Context, sessionID string, format export.Format) (*store.Session, string, error) {
	tr, err := d.Transcript(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	path, err := export.Write(d.cfg, tr, format)
	if err != nil {
		return nil, "", err
	}
	if err := d.notifier.NotifyExportCompleted(ctx, tr.Session.ID, path); err != nil {
		d.logger.Warn("export notification failed", logging.Error(err))
	}
	return tr.Session, path, nil
}

func (d *Daemon) resolveSession(ctx context.Context, sessionID string) (*store.Session, error) {
	if id := strings.TrimSpace(sessionID); id != "" {
		session, err := d.store.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, fmt.Errorf("session %s not found", id)
		}
		return session, nil
	}

	d.mu.Lock()
	active := d.session
	d.mu.Unlock()
	if active != nil {
		if fresh, err := d.store.GetSession(ctx, active.ID); err == nil && fresh != nil {
			return fresh, nil
		}
		return active, nil
	}

	sessions, err := d.store.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNoActiveSession
	}
	return sessions[0], nil
}
