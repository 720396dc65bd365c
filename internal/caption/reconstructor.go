package caption

import (
	"log/slog"
	"strings"
	"time"

	"captive/internal/logging"
	"captive/internal/speaker"
	"captive/internal/textutil"
)

const (
	// similarityThreshold separates "same utterance still rendering" from
	// genuinely new content. Snapshots scoring at or above it are
	// suppressed; the >= comparison is load-bearing.
	similarityThreshold = 0.8
	// minContentLength discards snapshots too short to be an utterance.
	minContentLength = 5
)

// Reconstructor folds successive caption-region snapshots into discrete
// utterance events. Platforms render captions as a rolling buffer that the
// layout engine re-emits many times per second, so the reconstructor's job
// is mostly refusing to emit: only a snapshot that diverges from the current
// rolling text below the similarity threshold produces an event.
//
// Not safe for concurrent use; the capture controller serializes all calls
// onto one goroutine.
type Reconstructor struct {
	logger  *slog.Logger
	tracker *speaker.Tracker
	emit    func(Event)

	sessionID    string
	lastAccepted string
	lastEventAt  time.Time
	count        int

	now func() time.Time
}

// NewReconstructor creates a reconstructor for one capture session.
// tracker may be nil when heuristic speaker attribution is not wanted for
// the platform. emit receives finalized events and must not block; sink
// failures are the sink's concern.
func NewReconstructor(logger *slog.Logger, tracker *speaker.Tracker, emit func(Event)) *Reconstructor {
	if emit == nil {
		emit = func(Event) {}
	}
	return &Reconstructor{
		logger:  logging.NewComponentLogger(logger, "reconstructor"),
		tracker: tracker,
		emit:    emit,
		now:     time.Now,
	}
}

// Reset clears rolling state for a new session. Any in-progress rolling
// text from the previous session is dropped, not flushed.
func (r *Reconstructor) Reset(sessionID string) {
	r.sessionID = sessionID
	r.lastAccepted = ""
	r.lastEventAt = time.Time{}
	r.count = 0
	if r.tracker != nil {
		r.tracker.Reset()
	}
}

// Count returns the number of events emitted this session.
func (r *Reconstructor) Count() int {
	return r.count
}

// Ingest processes one normalized snapshot. Empty or too-short snapshots
// are ignored. High-similarity snapshots refresh the rolling text without
// emitting; everything else becomes exactly one event.
func (r *Reconstructor) Ingest(text string) {
	if len(text) <= minContentLength {
		return
	}

	sim := textutil.Similarity(text, r.lastAccepted)
	if sim >= similarityThreshold {
		// Same utterance still rendering. Track the longer variant so
		// later prefix-delta extraction sees the full rolling buffer.
		if len(text) > len(r.lastAccepted) {
			r.lastAccepted = text
		}
		return
	}

	newContent := text
	if r.lastAccepted != "" && strings.HasPrefix(text, r.lastAccepted) {
		newContent = strings.TrimSpace(text[len(r.lastAccepted):])
	}
	if newContent == "" {
		return
	}

	now := r.now()
	eventText := newContent
	speakerLabel := ""
	if label, rest, ok := ParseSpeakerLabel(newContent); ok {
		speakerLabel = label
		eventText = rest
	} else if r.tracker != nil {
		speakerLabel = r.tracker.Attribute(newContent)
	}

	event := Event{
		SessionID:     r.sessionID,
		Text:          eventText,
		Speaker:       speakerLabel,
		Timestamp:     now,
		SequenceIndex: r.count,
	}
	r.count++
	r.lastAccepted = text
	r.lastEventAt = now

	r.logger.Debug("caption emitted",
		logging.Int("sequence", event.SequenceIndex),
		logging.Float64("similarity", sim),
		logging.String("speaker", speakerLabel),
	)
	r.emit(event)
}
