package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"captive/internal/caption"
	"captive/internal/config"
	"captive/internal/logging"
	"captive/internal/platform"
	"captive/internal/speaker"
	"captive/internal/textutil"
)

// Session identifies one capture run. All rolling and speaker state is
// scoped to a session and discarded when it ends.
type Session struct {
	ID        string
	Platform  platform.Platform
	StartedAt time.Time
}

// Snapshotter yields the current text of the platform's caption region.
// The bool result is false when no caption candidates exist yet, which is a
// normal pre-caption state rather than an error.
type Snapshotter interface {
	CaptionText() (string, bool)
}

// Sink receives finalized caption events. Implementations own their failure
// handling; the controller logs sink errors and moves on without retrying.
type Sink interface {
	SaveCaption(ctx context.Context, event caption.Event) error
}

// Status reports the controller's observable state.
type Status struct {
	Capturing        bool
	SessionID        string
	CaptionsDetected bool
	CaptionCount     int
}

const sinkTimeout = 5 * time.Second

// Controller orchestrates one platform's caption observation: the debounced
// mutation-driven path and the interval polling fallback both funnel into a
// single consumer goroutine that extracts, normalizes, and feeds the
// reconstructor. Whichever path observes first wins; there is deliberately
// no arbitration between them.
type Controller struct {
	cfg      *config.Config
	logger   *slog.Logger
	platform platform.Platform
	source   Snapshotter
	// mutations delivers DOM change notifications; nil disables the
	// mutation-driven path. A closed channel is treated as the caption
	// source going away (page navigation) and triggers a best-effort stop.
	mutations <-chan struct{}
	sink      Sink

	reconstructor *caption.Reconstructor

	mu      sync.Mutex
	session *Session
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	capturing atomic.Bool
	detected  atomic.Bool
	captions  atomic.Int64

	debouncer *Debouncer
	kick      chan struct{}
}

// NewController wires a controller for the given platform. The speaker
// heuristic is attached only when the config opts the platform into
// diarization; explicit caption labels always win regardless.
func NewController(cfg *config.Config, p platform.Platform, source Snapshotter, mutations <-chan struct{}, sink Sink, logger *slog.Logger) *Controller {
	c := &Controller{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "capture"),
		platform:  p,
		source:    source,
		mutations: mutations,
		sink:      sink,
		kick:      make(chan struct{}, 1),
	}

	var tracker *speaker.Tracker
	if cfg.Capture.Diarization {
		tracker = speaker.NewTracker()
	}
	c.reconstructor = caption.NewReconstructor(logger, tracker, c.emit)
	c.debouncer = NewDebouncer(time.Duration(cfg.Capture.DebounceMs)*time.Millisecond, c.kickConsumer)
	return c
}

// Start begins observing for the given session, resetting all rolling and
// speaker state. Starting while already capturing is an error.
func (c *Controller) Start(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capturing.Load() {
		return errors.New("capture already running")
	}

	c.session = &Session{ID: sessionID, Platform: c.platform, StartedAt: time.Now()}
	c.reconstructor.Reset(sessionID)
	c.detected.Store(false)
	c.captions.Store(0)

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.capturing.Store(true)

	c.wg.Add(1)
	go c.consume(runCtx)

	if c.mutations != nil {
		c.wg.Add(1)
		go c.watchMutations(runCtx)
	}

	c.logger.Info("capture started",
		logging.String(logging.FieldSessionID, sessionID),
		logging.String(logging.FieldPlatform, string(c.platform)),
	)
	return nil
}

// Stop halts observation. Idempotent: stopping an idle controller is a
// no-op. Any in-progress rolling text that never crossed the similarity
// threshold is dropped, not flushed.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.capturing.Load() {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	c.cancel = nil
	c.capturing.Store(false)
	session := c.session
	c.session = nil
	c.mu.Unlock()

	c.debouncer.Stop()
	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	c.detected.Store(false)

	if session != nil {
		c.logger.Info("capture stopped",
			logging.String(logging.FieldSessionID, session.ID),
			logging.Int64("captions", c.captions.Load()),
		)
	}
}

// Status reports whether capture is running and captions are visible.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := Status{
		Capturing:        c.capturing.Load(),
		CaptionsDetected: c.detected.Load(),
		CaptionCount:     int(c.captions.Load()),
	}
	if c.session != nil {
		status.SessionID = c.session.ID
	}
	return status
}

// consume is the single goroutine that owns all reconstruction state. Both
// ingestion paths land here: poll ticks directly, mutation bursts via the
// debouncer's kick.
func (c *Controller) consume(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Duration(c.cfg.Capture.PollIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.observe()
		case <-c.kick:
			c.observe()
		}
	}
}

func (c *Controller) watchMutations(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-c.mutations:
			if !ok {
				// Caption source went away (page closed or navigated).
				// Treat as an implicit stop; a mid-debounce event may be
				// lost, which is accepted.
				c.logger.Warn("caption source closed; stopping capture",
					logging.String(logging.FieldEventType, "source_closed"),
					logging.String(logging.FieldImpact, "trailing caption may be lost"),
				)
				go c.Stop()
				return
			}
			c.debouncer.Trigger()
		}
	}
}

// kickConsumer nudges the consumer after a debounce quiet period. Fires
// that land after Stop find capturing false and do nothing.
func (c *Controller) kickConsumer() {
	if !c.capturing.Load() {
		return
	}
	select {
	case c.kick <- struct{}{}:
	default:
	}
}

func (c *Controller) observe() {
	text, ok := c.source.CaptionText()
	c.detected.Store(ok)
	if !ok {
		return
	}
	c.reconstructor.Ingest(textutil.Normalize(text))
}

// emit hands a finalized event to the sink, fire-and-forget. Sink failures
// are logged and the event is dropped from the sink's perspective only; the
// capture session always continues.
func (c *Controller) emit(event caption.Event) {
	c.captions.Add(1)
	if c.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()
	if err := c.sink.SaveCaption(ctx, event); err != nil {
		c.logger.Warn("caption sink unavailable",
			logging.Error(err),
			logging.String(logging.FieldEventType, "sink_unavailable"),
			logging.String(logging.FieldSessionID, event.SessionID),
			logging.Int("sequence", event.SequenceIndex),
			logging.String(logging.FieldImpact, "caption not persisted"),
			logging.String(logging.FieldErrorHint, "check the session database path and disk space"),
		)
	}
}
