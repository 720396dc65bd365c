// Package capture owns session lifecycle and observation scheduling for
// the caption pipeline.
//
// Two producers feed a session: DOM mutation notifications, debounced with
// a trailing-edge quiet period, and a fixed-interval polling fallback for
// platforms whose caption region mutates silently. Both land on a single
// consumer goroutine that extracts, normalizes, and hands snapshots to the
// reconstructor, so all rolling state stays single-writer without locks.
// Finished events go to the sink fire-and-forget: a failing sink is logged
// and never stalls or aborts the capture session.
package capture
