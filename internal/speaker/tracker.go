package speaker

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// The heuristic rotates between exactly two identities. It is a deliberate
// simulation of turn-taking from text shape alone, not diarization: exports
// and tests assume these two labels, so the set must never grow.
const (
	LabelA = "Person A"
	LabelB = "Person B"
)

const (
	// longPause scores strongly toward a turn change.
	longPause = 3 * time.Second
	// hardPause forces a turn change regardless of score.
	hardPause = 5 * time.Second
	// turnScoreThreshold is the minimum combined score for a turn change.
	turnScoreThreshold = 3
	// lengthDeltaThreshold flags an abrupt style change between segments.
	lengthDeltaThreshold = 20
)

// discourseOpeners are transition words that often start a new speaker's turn.
var discourseOpeners = map[string]struct{}{
	"yes":     {},
	"no":      {},
	"well":    {},
	"so":      {},
	"now":     {},
	"okay":    {},
	"alright": {},
	"right":   {},
}

// Info records bookkeeping for one attributed identity.
type Info struct {
	FirstSeenAt  time.Time
	SegmentCount int
}

// Tracker attributes caption segments to alternating speaker identities
// using text-pattern heuristics. One Tracker per capture session; callers
// must Reset between sessions.
type Tracker struct {
	current      string
	known        map[string]*Info
	lastSpeechAt time.Time
	prevText     string

	now func() time.Time
}

// NewTracker returns a tracker with empty state.
func NewTracker() *Tracker {
	return &Tracker{
		known: make(map[string]*Info),
		now:   time.Now,
	}
}

// SetClock overrides the time source (for tests).
func (t *Tracker) SetClock(now func() time.Time) {
	if now != nil {
		t.now = now
	}
}

// Reset clears all speaker state for a fresh session.
func (t *Tracker) Reset() {
	t.current = ""
	t.known = make(map[string]*Info)
	t.lastSpeechAt = time.Time{}
	t.prevText = ""
}

// Current returns the identity currently holding the floor, or "" before the
// first attribution.
func (t *Tracker) Current() string {
	return t.current
}

// Known returns a copy of the per-identity bookkeeping.
func (t *Tracker) Known() map[string]Info {
	out := make(map[string]Info, len(t.known))
	for label, info := range t.known {
		out[label] = *info
	}
	return out
}

// Attribute decides which identity spoke the given segment and returns its
// label. The scoring favors a turn change after long pauses, at sentence
// boundaries, on discourse-transition openers, and on abrupt length changes;
// a pause above the hard threshold switches unconditionally.
func (t *Tracker) Attribute(text string) string {
	now := t.now()
	elapsed := now.Sub(t.lastSpeechAt)

	score := 0
	if elapsed > longPause {
		score += 3
	}
	if endsSentence(text) && startsUpper(t.prevText) {
		score += 2
	}
	if _, ok := discourseOpeners[firstWord(text)]; ok {
		score++
	}
	if delta := len(text) - len(t.prevText); delta > lengthDeltaThreshold || delta < -lengthDeltaThreshold {
		score++
	}

	if score >= turnScoreThreshold || t.current == "" || elapsed > hardPause {
		if t.current == LabelA {
			t.current = LabelB
		} else {
			t.current = LabelA
		}
	}

	info, ok := t.known[t.current]
	if !ok {
		info = &Info{FirstSeenAt: now}
		t.known[t.current] = info
	}
	info.SegmentCount++

	t.prevText = text
	t.lastSpeechAt = now
	return t.current
}

func endsSentence(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func startsUpper(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return unicode.IsUpper(r)
}

func firstWord(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], ",.!?;:")
}
