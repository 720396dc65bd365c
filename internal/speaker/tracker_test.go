package speaker

import (
	"testing"
	"time"
)

// fakeClock steps time forward a fixed amount per call site via Advance.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{current: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	tracker := NewTracker()
	tracker.now = clock.Now
	return tracker, clock
}

func TestAttributeAlternatesOnHardPause(t *testing.T) {
	tracker, clock := newTestTracker()

	want := []string{LabelA, LabelB, LabelA}
	var got []string
	for i, text := range []string{"first remarks", "second remarks", "third remarks"} {
		if i > 0 {
			clock.Advance(6 * time.Second)
		}
		got = append(got, tracker.Attribute(text))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("attribution sequence = %v, want %v", got, want)
		}
	}
}

func TestAttributeFirstSegmentIsPersonA(t *testing.T) {
	tracker, _ := newTestTracker()
	if got := tracker.Attribute("hello everyone"); got != LabelA {
		t.Errorf("first attribution = %q, want %q", got, LabelA)
	}
}

func TestAttributeKeepsSpeakerWithinTurn(t *testing.T) {
	tracker, clock := newTestTracker()
	tracker.Attribute("we were just discussing the roadmap")

	// Rapid continuation with no sentence boundary, no opener, and similar
	// length should stay on the same speaker.
	clock.Advance(500 * time.Millisecond)
	if got := tracker.Attribute("we were still discussing the roadmap"); got != LabelA {
		t.Errorf("continuation attributed to %q, want %q", got, LabelA)
	}
}

func TestAttributeSwitchesOnCombinedSignals(t *testing.T) {
	tracker, clock := newTestTracker()
	tracker.Attribute("That concludes the overall status update for this quarter")

	// Within the hard-pause window, but a sentence boundary after a
	// capitalized previous segment (+2), a discourse opener (+1), and an
	// abrupt length change (+1) clear the threshold.
	clock.Advance(time.Second)
	if got := tracker.Attribute("Well, thanks."); got != LabelB {
		t.Errorf("turn change attributed to %q, want %q", got, LabelB)
	}
}

func TestAttributeBookkeeping(t *testing.T) {
	tracker, clock := newTestTracker()
	tracker.Attribute("one")
	clock.Advance(6 * time.Second)
	tracker.Attribute("two")
	clock.Advance(500 * time.Millisecond)
	tracker.Attribute("three")

	known := tracker.Known()
	if len(known) != 2 {
		t.Fatalf("known speakers = %d, want 2", len(known))
	}
	if known[LabelA].SegmentCount != 1 {
		t.Errorf("%s segments = %d, want 1", LabelA, known[LabelA].SegmentCount)
	}
	if known[LabelB].SegmentCount != 2 {
		t.Errorf("%s segments = %d, want 2", LabelB, known[LabelB].SegmentCount)
	}
	if known[LabelA].FirstSeenAt.After(known[LabelB].FirstSeenAt) {
		t.Error("Person A should have been seen first")
	}
}

func TestAttributeNeverExceedsTwoLabels(t *testing.T) {
	tracker, clock := newTestTracker()
	for i := 0; i < 10; i++ {
		tracker.Attribute("segment text that varies a little bit here")
		clock.Advance(7 * time.Second)
	}
	if got := len(tracker.Known()); got != 2 {
		t.Fatalf("known speakers = %d, want exactly 2", got)
	}
}

func TestResetClearsState(t *testing.T) {
	tracker, _ := newTestTracker()
	tracker.Attribute("hello")
	tracker.Reset()
	if tracker.Current() != "" {
		t.Error("current speaker should be empty after reset")
	}
	if len(tracker.Known()) != 0 {
		t.Error("known speakers should be empty after reset")
	}
}
