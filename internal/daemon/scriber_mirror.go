package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"captive/internal/caption"
	"captive/internal/logging"
	"captive/internal/scriber"
	"captive/internal/store"
)

// scriberMirror polls the companion audio-transcription service while a
// session runs and merges its transcript into the session store when the
// session ends. Audio entries are appended after the live captions so the
// two streams never contend for sequence indexes.
type scriberMirror struct {
	client    *scriber.Client
	store     *store.Store
	logger    *slog.Logger
	sessionID string
	interval  time.Duration

	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	entries []scriber.Entry
}

func newScriberMirror(client *scriber.Client, st *store.Store, logger *slog.Logger, sessionID string, pollSeconds int) *scriberMirror {
	interval := time.Duration(pollSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &scriberMirror{
		client:    client,
		store:     st,
		logger:    logging.NewComponentLogger(logger, "scriber-mirror"),
		sessionID: sessionID,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

// start launches the polling loop.
func (m *scriberMirror) start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	go m.run(ctx)
}

func (m *scriberMirror) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

// poll replaces the buffered entries with the service's current rolling
// transcript. Fetch failures keep the last good buffer.
func (m *scriberMirror) poll(ctx context.Context) {
	transcript, err := m.client.Transcript(ctx)
	if err != nil {
		m.logger.Debug("scriber transcript poll failed", logging.Error(err))
		return
	}
	m.mu.Lock()
	m.entries = transcript.Entries
	m.mu.Unlock()
}

// stop halts polling, takes a final transcript snapshot, and persists the
// audio entries as captions starting at sequenceBase. Returns how many
// entries were merged.
func (m *scriberMirror) stop(ctx context.Context, sequenceBase int) int {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}

	// One last fetch catches utterances transcribed after the final tick.
	if transcript, err := m.client.Transcript(ctx); err == nil {
		m.mu.Lock()
		m.entries = transcript.Entries
		m.mu.Unlock()
	}

	m.mu.Lock()
	entries := m.entries
	m.mu.Unlock()

	merged := 0
	for _, entry := range entries {
		observed, err := entry.Time()
		if err != nil {
			observed = time.Now()
		}
		event := caption.Event{
			SessionID:     m.sessionID,
			Text:          entry.Text,
			Speaker:       entry.Speaker,
			Timestamp:     observed,
			SequenceIndex: sequenceBase + merged,
		}
		if err := m.store.SaveCaption(ctx, event); err != nil {
			m.logger.Warn("failed to merge scriber entry",
				logging.Error(err),
				logging.String(logging.FieldSessionID, m.sessionID))
			continue
		}
		merged++
	}
	if merged > 0 {
		m.logger.Info("merged scriber transcript",
			logging.String(logging.FieldSessionID, m.sessionID),
			logging.Int("entries", merged))
	}
	return merged
}
