// Package speaker simulates speaker turn-taking from text shape alone.
//
// When a platform's captions carry no explicit speaker labels, the tracker
// scores each incoming segment for turn-change signals (pauses, sentence
// boundaries, discourse openers, abrupt length changes) and rotates between
// exactly two fixed identities. This is intentionally not diarization, and
// the two-label alternation is relied on by export formatting; resist the
// urge to generalize it into an open speaker set.
package speaker
