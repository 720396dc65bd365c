package daemon

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"captive/internal/config"
	"captive/internal/logging"
	"captive/internal/platform"
	"captive/internal/testsupport"
)

type fakeSource struct {
	mu        sync.Mutex
	text      string
	found     bool
	navigated []string
	watched   bool
	closed    bool
	mutations chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{mutations: make(chan struct{}, 4)}
}

func (f *fakeSource) set(text string, found bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	f.found = found
}

func (f *fakeSource) CaptionText() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, f.found
}

func (f *fakeSource) Mutations() <-chan struct{} { return f.mutations }

func (f *fakeSource) Navigate(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, url)
	return nil
}

func (f *fakeSource) WatchCaptions() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watched = true
	return nil
}

func (f *fakeSource) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func newTestDaemon(t *testing.T, source *fakeSource) *Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Capture.PollIntervalMs = 10
	return newTestDaemonWithConfig(t, cfg, source)
}

func newTestDaemonWithConfig(t *testing.T, cfg *config.Config, source *fakeSource) *Daemon {
	t.Helper()
	st := testsupport.MustOpenStore(t, cfg)
	d, err := New(cfg, st, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.newSource = func(*config.Config, platform.Platform, *slog.Logger) (CaptionSource, error) {
		return source, nil
	}
	t.Cleanup(d.Stop)
	return d
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIBind = ""
	st := testsupport.MustOpenStore(t, cfg)

	first, err := New(cfg, st, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(first.Stop)

	second, err := New(cfg, st, logging.NewNop())
	if err != nil {
		t.Fatalf("New second: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second daemon acquired the lock")
	}
}

func TestSessionLifecycle(t *testing.T) {
	source := newFakeSource()
	d := newTestDaemon(t, source)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx := context.Background()
	session, err := d.StartSession(ctx, SessionRequest{URL: "https://meet.example/abc", Title: "Standup"})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.Platform != "meet" {
		t.Errorf("platform = %q", session.Platform)
	}
	if len(source.navigated) != 1 || source.navigated[0] != "https://meet.example/abc" {
		t.Errorf("navigated = %v", source.navigated)
	}
	if !source.watched {
		t.Error("mutation observation never installed")
	}

	// A second session while one runs is rejected.
	if _, err := d.StartSession(ctx, SessionRequest{}); err == nil {
		t.Fatal("concurrent StartSession succeeded")
	}

	source.set("Alice: Welcome to standup", true)
	waitFor(t, 2*time.Second, func() bool {
		count, err := d.store.CaptionCount(ctx, session.ID)
		return err == nil && count >= 1
	})

	status := d.Status(ctx)
	if status.Session == nil || status.Session.ID != session.ID {
		t.Fatalf("status session = %#v", status.Session)
	}
	if !status.Capture.Capturing {
		t.Error("capture not reported as running")
	}

	finished, err := d.StopSession(ctx)
	if err != nil {
		t.Fatalf("StopSession: %v", err)
	}
	if finished.Active() {
		t.Error("stopped session still active")
	}
	if !source.isClosed() {
		t.Error("caption source not closed")
	}

	if _, err := d.StopSession(ctx); err != ErrNoActiveSession {
		t.Errorf("second StopSession error = %v, want ErrNoActiveSession", err)
	}
}

func TestStartSessionRequiresRunningDaemon(t *testing.T) {
	d := newTestDaemon(t, newFakeSource())
	if _, err := d.StartSession(context.Background(), SessionRequest{}); err == nil {
		t.Fatal("StartSession succeeded on a stopped daemon")
	}
}

func TestStartSessionUnknownPlatform(t *testing.T) {
	d := newTestDaemon(t, newFakeSource())
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := d.StartSession(context.Background(), SessionRequest{Platform: "facetime"}); err == nil {
		t.Fatal("unknown platform accepted")
	}
}

func TestTranscriptResolvesLatestSession(t *testing.T) {
	source := newFakeSource()
	d := newTestDaemon(t, source)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx := context.Background()
	session, err := d.StartSession(ctx, SessionRequest{})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	source.set("Words worth keeping around", true)
	waitFor(t, 2*time.Second, func() bool {
		count, err := d.store.CaptionCount(ctx, session.ID)
		return err == nil && count >= 1
	})
	if _, err := d.StopSession(ctx); err != nil {
		t.Fatalf("StopSession: %v", err)
	}

	tr, err := d.Transcript(ctx, "")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if tr.Session.ID != session.ID {
		t.Errorf("resolved session = %q, want %q", tr.Session.ID, session.ID)
	}
	if len(tr.Captions) == 0 {
		t.Error("transcript has no captions")
	}
}

func TestTranscriptNoSessions(t *testing.T) {
	d := newTestDaemon(t, newFakeSource())
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := d.Transcript(context.Background(), ""); err != ErrNoActiveSession {
		t.Errorf("Transcript error = %v, want ErrNoActiveSession", err)
	}
}
