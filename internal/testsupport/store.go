package testsupport

import (
	"context"
	"testing"
	"time"

	"captive/internal/caption"
	"captive/internal/config"
	"captive/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSession creates a session row for tests using the provided store.
func NewSession(t testing.TB, st *store.Store, id, platform string) *store.Session {
	t.Helper()

	session, err := st.CreateSession(context.Background(), id, platform, "")
	if err != nil {
		t.Fatalf("store.CreateSession: %v", err)
	}
	return session
}

// SaveCaption persists a caption event for tests, failing the test on error.
func SaveCaption(t testing.TB, st *store.Store, sessionID string, sequence int, speaker, text string) {
	t.Helper()

	event := caption.Event{
		SessionID:     sessionID,
		Text:          text,
		Speaker:       speaker,
		Timestamp:     time.Now().UTC(),
		SequenceIndex: sequence,
	}
	if err := st.SaveCaption(context.Background(), event); err != nil {
		t.Fatalf("store.SaveCaption: %v", err)
	}
}
