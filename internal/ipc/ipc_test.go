package ipc_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"captive/internal/config"
	"captive/internal/daemon"
	"captive/internal/ipc"
	"captive/internal/logging"
	"captive/internal/platform"
	"captive/internal/testsupport"
)

type fakeSource struct {
	mu        sync.Mutex
	text      string
	found     bool
	mutations chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{mutations: make(chan struct{}, 1)}
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
func (f *fakeSource) Navigate(string) error      { return nil }
func (f *fakeSource) WatchCaptions() error       { return nil }
func (f *fakeSource) Close()                     {}

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIBind = ""
	cfg.Capture.PollIntervalMs = 10
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	source := newFakeSource()
	d.SetSourceFactory(func(*config.Config, platform.Platform, *slog.Logger) (daemon.CaptionSource, error) {
		return source, nil
	})
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(cfg.Paths.LogDir, "captive.sock")
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	startResp, err := client.Start(ipc.StartRequest{Platform: "meet", Title: "Weekly"})
	if err != nil {
		t.Fatalf("Start RPC failed: %v", err)
	}
	if !startResp.Started {
		t.Fatalf("expected Started=true, message=%s", startResp.Message)
	}
	sessionID := startResp.Session.ID

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}
	if status.Session == nil || status.Session.ID != sessionID {
		t.Fatalf("status session = %#v", status.Session)
	}

	// Starting again reports failure without an RPC error.
	again, err := client.Start(ipc.StartRequest{Platform: "meet"})
	if err != nil {
		t.Fatalf("second Start RPC failed: %v", err)
	}
	if again.Started {
		t.Fatal("second session start should be rejected")
	}

	source.set("Carol: The numbers look good", true)
	deadline := time.Now().Add(2 * time.Second)
	for {
		transcript, err := client.Transcript(sessionID)
		if err == nil && len(transcript.Captions) > 0 {
			if transcript.Captions[0].Speaker != "Carol" {
				t.Errorf("speaker = %q", transcript.Captions[0].Speaker)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no captions arrived over IPC")
		}
		time.Sleep(10 * time.Millisecond)
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stopResp.Stopped || stopResp.Session.Active {
		t.Fatalf("stop = %#v", stopResp)
	}

	sessions, err := client.SessionList()
	if err != nil {
		t.Fatalf("SessionList RPC failed: %v", err)
	}
	if len(sessions.Sessions) != 1 || sessions.Sessions[0].ID != sessionID {
		t.Fatalf("sessions = %#v", sessions.Sessions)
	}

	described, err := client.SessionDescribe(sessionID)
	if err != nil {
		t.Fatalf("SessionDescribe RPC failed: %v", err)
	}
	if described.Session.CaptionCount == 0 {
		t.Error("described session has no captions")
	}

	exported, err := client.Export(sessionID, "json")
	if err != nil {
		t.Fatalf("Export RPC failed: %v", err)
	}
	if exported.Path == "" || exported.Format != "json" {
		t.Fatalf("export = %#v", exported)
	}

	health, err := client.DatabaseHealth()
	if err != nil {
		t.Fatalf("DatabaseHealth RPC failed: %v", err)
	}
	if !health.DatabaseReadable || health.TotalSessions != 1 {
		t.Fatalf("health = %#v", health)
	}

	notif, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification RPC failed: %v", err)
	}
	if notif.Sent {
		t.Error("notification sent without a configured topic")
	}
}
