package caption

import "time"

// Snapshot is the raw text extracted from the caption region at one
// observation tick. Snapshots are ephemeral: once folded into the
// reconstructor's rolling state they are discarded.
type Snapshot struct {
	RawText    string
	ObservedAt time.Time
}

// Event is one finalized caption utterance. Events are immutable once
// emitted; ownership transfers to the sink.
type Event struct {
	SessionID string `json:"session_id"`
	// Text is the normalized utterance text, never empty.
	Text string `json:"text"`
	// Speaker is the attributed speaker label, or "" when unattributed.
	Speaker   string    `json:"speaker,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	// SequenceIndex is 0-based and strictly increasing within a session.
	SequenceIndex int `json:"sequence_index"`
}
