package store_test

import (
	"context"
	"testing"
	"time"

	"captive/internal/caption"
	"captive/internal/store"
	"captive/internal/testsupport"
)

func eventAt(sessionID string, sequence int, text string) caption.Event {
	return caption.Event{
		SessionID:     sessionID,
		Text:          text,
		Timestamp:     time.Now().UTC(),
		SequenceIndex: sequence,
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	session, err := st.CreateSession(ctx, "sess-1", "meet", "standup")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session == nil || session.ID != "sess-1" {
		t.Fatalf("unexpected session: %#v", session)
	}
	if !session.Active() {
		t.Fatal("new session should be active")
	}
	if session.Platform != "meet" || session.Title != "standup" {
		t.Fatalf("unexpected session fields: %#v", session)
	}
}

func TestReopenVerifiesSchemaVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := testsupport.MustOpenStore(t, cfg)
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
}

func TestSaveAndReadCaptions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewSession(t, st, "sess-1", "meet")

	testsupport.SaveCaption(t, st, "sess-1", 0, "Alice", "Good morning everyone")
	testsupport.SaveCaption(t, st, "sess-1", 1, "", "Let us get started")
	testsupport.SaveCaption(t, st, "sess-1", 2, "Bob", "Sounds good to me")

	ctx := context.Background()
	captions, err := st.Captions(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Captions failed: %v", err)
	}
	if len(captions) != 3 {
		t.Fatalf("captions = %d, want 3", len(captions))
	}
	if captions[0].Speaker != "Alice" || captions[0].SequenceIndex != 0 {
		t.Errorf("first caption = %#v", captions[0])
	}
	if captions[1].Speaker != "" {
		t.Errorf("unattributed caption got speaker %q", captions[1].Speaker)
	}
	if captions[2].Text != "Sounds good to me" {
		t.Errorf("third caption text = %q", captions[2].Text)
	}

	count, err := st.CaptionCount(ctx, "sess-1")
	if err != nil {
		t.Fatalf("CaptionCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestDuplicateSequenceRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewSession(t, st, "sess-1", "meet")
	testsupport.SaveCaption(t, st, "sess-1", 0, "Alice", "First words")

	err := st.SaveCaption(context.Background(), eventAt("sess-1", 0, "Repeated sequence"))
	if err == nil {
		t.Fatal("duplicate sequence index accepted, want error")
	}
}

func TestEndSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewSession(t, st, "sess-1", "youtube")

	ctx := context.Background()
	if err := st.EndSession(ctx, "sess-1"); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	session, err := st.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session.Active() {
		t.Fatal("session still active after EndSession")
	}
	firstEnd := *session.EndedAt

	// A second end leaves the original timestamp in place.
	if err := st.EndSession(ctx, "sess-1"); err != nil {
		t.Fatalf("second EndSession failed: %v", err)
	}
	session, err = st.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if !session.EndedAt.Equal(firstEnd) {
		t.Errorf("ended_at changed on repeated end: %v vs %v", session.EndedAt, firstEnd)
	}
}

func TestActiveSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	active, err := st.ActiveSession(ctx)
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if active != nil {
		t.Fatalf("unexpected active session: %#v", active)
	}

	testsupport.NewSession(t, st, "sess-1", "meet")
	if err := st.EndSession(ctx, "sess-1"); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	testsupport.NewSession(t, st, "sess-2", "meet")

	active, err = st.ActiveSession(ctx)
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if active == nil || active.ID != "sess-2" {
		t.Fatalf("active session = %#v, want sess-2", active)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewSession(t, st, "older", "meet")
	testsupport.NewSession(t, st, "newer", "zoom")
	testsupport.SaveCaption(t, st, "newer", 0, "", "Only caption")

	sessions, err := st.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	if sessions[0].ID != "newer" {
		t.Errorf("first listed session = %q, want newer", sessions[0].ID)
	}
	if sessions[0].CaptionCount != 1 || sessions[1].CaptionCount != 0 {
		t.Errorf("caption counts = %d, %d", sessions[0].CaptionCount, sessions[1].CaptionCount)
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewSession(t, st, "sess-1", "meet")
	testsupport.SaveCaption(t, st, "sess-1", 0, "Alice", "About to vanish")

	ctx := context.Background()
	if err := st.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	session, err := st.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session != nil {
		t.Fatalf("session survived delete: %#v", session)
	}
	count, err := st.CaptionCount(ctx, "sess-1")
	if err != nil {
		t.Fatalf("CaptionCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("captions survived cascade delete: %d", count)
	}
}

func TestSpeakersFirstAppearanceOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewSession(t, st, "sess-1", "youtube")
	testsupport.SaveCaption(t, st, "sess-1", 0, "Person B", "Opening line")
	testsupport.SaveCaption(t, st, "sess-1", 1, "", "No speaker here")
	testsupport.SaveCaption(t, st, "sess-1", 2, "Person A", "A reply")
	testsupport.SaveCaption(t, st, "sess-1", 3, "Person B", "And a follow up")

	speakers, err := st.Speakers(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Speakers failed: %v", err)
	}
	want := []string{"Person B", "Person A"}
	if len(speakers) != len(want) {
		t.Fatalf("speakers = %v, want %v", speakers, want)
	}
	for i := range want {
		if speakers[i] != want[i] {
			t.Errorf("speakers[%d] = %q, want %q", i, speakers[i], want[i])
		}
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewSession(t, st, "sess-1", "meet")
	testsupport.SaveCaption(t, st, "sess-1", 0, "", "A single caption")

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseReadable || !health.IntegrityCheck {
		t.Errorf("unexpected health: %#v", health)
	}
	if health.TotalSessions != 1 || health.TotalCaptions != 1 {
		t.Errorf("totals = %d sessions, %d captions", health.TotalSessions, health.TotalCaptions)
	}
}
