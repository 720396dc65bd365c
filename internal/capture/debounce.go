package capture

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single trailing-edge call:
// fn runs once the trigger stream has been quiet for the configured period.
// A caption region can mutate dozens of times per second while rendering;
// debouncing keeps that from turning into dozens of extraction passes.
type Debouncer struct {
	mu    sync.Mutex
	quiet time.Duration
	fn    func()
	timer *time.Timer
}

// NewDebouncer wraps fn with a trailing-edge quiet period.
func NewDebouncer(quiet time.Duration, fn func()) *Debouncer {
	if quiet <= 0 {
		quiet = time.Millisecond
	}
	return &Debouncer{quiet: quiet, fn: fn}
}

// Trigger schedules fn after the quiet period, resetting the countdown if a
// previous trigger is still pending.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fn)
}

// Stop cancels any pending call. It does not prevent future triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
