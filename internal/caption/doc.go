// Package caption reconstructs a clean utterance stream from the noisy,
// overlapping snapshots a live caption region produces.
//
// Captions on the supported platforms are not discrete messages: the DOM
// shows a rolling buffer that grows and mutates in place, and every layout
// pass re-renders the same text. The reconstructor compares each snapshot
// against its rolling state with a token-overlap score and suppresses
// anything at or above the 0.8 similarity threshold, so one utterance
// rendered dozens of times yields exactly one event. New content is reduced
// to its unseen suffix when the snapshot extends the previous buffer,
// explicit "Name:" labels are split off, and the speaker heuristic fills in
// attribution when the platform provides none.
package caption
