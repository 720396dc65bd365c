package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"captive/internal/config"
	"captive/internal/notifications"
)

type recordedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newRecordingServer(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		out := make([]recordedRequest, len(requests))
		copy(out, requests)
		return out
	}
}

func ntfyConfig(topic string) *config.Config {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = topic
	cfg.Notifications.Sessions = true
	cfg.Notifications.Errors = true
	return &cfg
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifySessionStarted(context.Background(), "sess-1", "meet"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestSessionNotifications(t *testing.T) {
	server, recorded := newRecordingServer(t)
	svc := notifications.NewService(ntfyConfig(server.URL))

	ctx := context.Background()
	if err := svc.NotifySessionStarted(ctx, "sess-1", "meet"); err != nil {
		t.Fatalf("NotifySessionStarted: %v", err)
	}
	if err := svc.NotifySessionEnded(ctx, "sess-1", 42, 90*time.Second); err != nil {
		t.Fatalf("NotifySessionEnded: %v", err)
	}

	requests := recorded()
	if len(requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(requests))
	}
	if requests[0].title != "Captive - Session Started" {
		t.Errorf("title = %q", requests[0].title)
	}
	if requests[0].tags != "captive,session,started" {
		t.Errorf("tags = %q", requests[0].tags)
	}
	if requests[1].body != "Session sess-1 captured 42 captions in 1m30s" {
		t.Errorf("body = %q", requests[1].body)
	}
}

func TestErrorNotificationPriority(t *testing.T) {
	server, recorded := newRecordingServer(t)
	svc := notifications.NewService(ntfyConfig(server.URL))

	if err := svc.NotifyError(context.Background(), errors.New("socket gone"), "daemon"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	requests := recorded()
	if len(requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(requests))
	}
	if requests[0].priority != "high" {
		t.Errorf("priority = %q, want high", requests[0].priority)
	}
	if requests[0].body != "Error with daemon: socket gone" {
		t.Errorf("body = %q", requests[0].body)
	}
}

func TestSessionEventsSuppressedWhenDisabled(t *testing.T) {
	server, recorded := newRecordingServer(t)
	cfg := ntfyConfig(server.URL)
	cfg.Notifications.Sessions = false
	svc := notifications.NewService(cfg)

	if err := svc.NotifySessionStarted(context.Background(), "sess-1", "meet"); err != nil {
		t.Fatalf("NotifySessionStarted: %v", err)
	}
	if got := len(recorded()); got != 0 {
		t.Errorf("requests = %d, want 0 with sessions disabled", got)
	}

	// Test notifications bypass the toggles.
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	if got := len(recorded()); got != 1 {
		t.Errorf("requests = %d, want 1 after test notification", got)
	}
}

func TestServerErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic rejected", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	svc := notifications.NewService(ntfyConfig(server.URL))
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error from 403 response")
	}
}
