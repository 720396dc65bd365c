package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"captive/internal/api"
	"captive/internal/testsupport"
)

func TestAPIServerStatusAndAuth(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIToken("secret-token"))
	cfg.Capture.PollIntervalMs = 10
	d := newTestDaemonWithConfig(t, cfg, newFakeSource())
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	base := "http://" + d.api.addr()
	client := &http.Client{Timeout: 5 * time.Second}

	// Missing token is rejected.
	resp, err := client.Get(base + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, base+"/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("GET status with token: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status with token = %d, want 200", resp.StatusCode)
	}
	var payload api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !payload.Running {
		t.Error("daemon not reported running")
	}
	if payload.Session != nil {
		t.Errorf("unexpected session in status: %#v", payload.Session)
	}
}

func TestAPIServerSessionFlow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Capture.PollIntervalMs = 10
	source := newFakeSource()
	d := newTestDaemonWithConfig(t, cfg, source)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	base := "http://" + d.api.addr()
	client := &http.Client{Timeout: 5 * time.Second}

	body, _ := json.Marshal(map[string]string{"platform": "meet", "title": "Weekly"})
	resp, err := client.Post(base+"/api/start", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST start: %v", err)
	}
	var started api.SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		t.Fatalf("decode start: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || started.Session.ID == "" {
		t.Fatalf("start = %d, session %#v", resp.StatusCode, started.Session)
	}

	// Starting again conflicts.
	resp, err = client.Post(base+"/api/start", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("second POST start: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second start = %d, want 409", resp.StatusCode)
	}

	source.set("Bob: Words over the wire", true)
	waitFor(t, 2*time.Second, func() bool {
		count, err := d.store.CaptionCount(context.Background(), started.Session.ID)
		return err == nil && count >= 1
	})

	resp, err = client.Get(base + "/api/transcript")
	if err != nil {
		t.Fatalf("GET transcript: %v", err)
	}
	var transcript api.TranscriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	resp.Body.Close()
	if transcript.SessionID != started.Session.ID || len(transcript.Captions) == 0 {
		t.Fatalf("transcript = %#v", transcript)
	}
	if transcript.Captions[0].Speaker != "Bob" {
		t.Errorf("speaker = %q", transcript.Captions[0].Speaker)
	}

	resp, err = client.Post(base+"/api/stop", "application/json", nil)
	if err != nil {
		t.Fatalf("POST stop: %v", err)
	}
	var stopped api.SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&stopped); err != nil {
		t.Fatalf("decode stop: %v", err)
	}
	resp.Body.Close()
	if stopped.Session.Active {
		t.Error("stopped session reported active")
	}

	resp, err = client.Get(fmt.Sprintf("%s/api/export?format=md&session=%s", base, started.Session.ID))
	if err != nil {
		t.Fatalf("GET export: %v", err)
	}
	var exported api.ExportResponse
	if err := json.NewDecoder(resp.Body).Decode(&exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	resp.Body.Close()
	if exported.Path == "" || exported.Format != "markdown" {
		t.Fatalf("export = %#v", exported)
	}
}

func TestAPIServerStopWithoutSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newTestDaemonWithConfig(t, cfg, newFakeSource())
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	base := "http://" + d.api.addr()
	resp, err := http.Post(base+"/api/stop", "application/json", nil)
	if err != nil {
		t.Fatalf("POST stop: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("stop without session = %d, want 409", resp.StatusCode)
	}
}
