package export_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"captive/internal/export"
	"captive/internal/store"
	"captive/internal/testsupport"
)

func sampleTranscript() export.Transcript {
	started := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	ended := started.Add(25 * time.Minute)
	return export.Transcript{
		Session: &store.Session{
			ID:        "sess-1",
			Platform:  "meet",
			Title:     "Weekly Sync",
			StartedAt: started,
			EndedAt:   &ended,
		},
		Captions: []*store.Caption{
			{SequenceIndex: 0, Speaker: "alice", Text: "Good morning everyone", ObservedAt: started.Add(time.Minute)},
			{SequenceIndex: 1, Speaker: "", Text: "Agenda is on the screen", ObservedAt: started.Add(2 * time.Minute)},
			{SequenceIndex: 2, Speaker: "bob", Text: "Thanks for joining", ObservedAt: started.Add(3 * time.Minute)},
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    export.Format
		wantErr bool
	}{
		{"", export.FormatText, false},
		{"txt", export.FormatText, false},
		{"Markdown", export.FormatMarkdown, false},
		{"md", export.FormatMarkdown, false},
		{"json", export.FormatJSON, false},
		{"pdf", "", true},
	}
	for _, tc := range cases {
		got, err := export.ParseFormat(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) succeeded, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderText(t *testing.T) {
	out, err := export.Render(sampleTranscript(), export.FormatText)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		"Caption Session Transcript",
		"Session ID: sess-1",
		"Platform: meet",
		"Total Entries: 3",
		"alice: Good morning everyone",
		"Speaker: Agenda is on the screen",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q\n%s", want, out)
		}
	}
}

func TestRenderTextEmpty(t *testing.T) {
	tr := sampleTranscript()
	tr.Captions = nil
	out, err := export.Render(tr, export.FormatText)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "No transcript data available.") {
		t.Errorf("empty transcript output missing placeholder\n%s", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := export.Render(sampleTranscript(), export.FormatMarkdown)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(out, "# Weekly Sync\n") {
		t.Errorf("markdown missing title heading\n%s", out)
	}
	for _, want := range []string{
		"- Attendees: Alice, Bob",
		"- Platform: `meet`",
		"- Duration: 25m0s",
		"alice: Good morning everyone",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q\n%s", want, out)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	out, err := export.Render(sampleTranscript(), export.FormatJSON)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var doc struct {
		SessionID string `json:"session_id"`
		Captions  []struct {
			SequenceIndex int    `json:"sequence_index"`
			Speaker       string `json:"speaker"`
			Text          string `json:"text"`
		} `json:"captions"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if doc.SessionID != "sess-1" {
		t.Errorf("session_id = %q", doc.SessionID)
	}
	if len(doc.Captions) != 3 {
		t.Fatalf("captions = %d, want 3", len(doc.Captions))
	}
	if doc.Captions[1].Speaker != "" {
		t.Errorf("unattributed caption serialized speaker %q", doc.Captions[1].Speaker)
	}
}

func TestWriteCreatesFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path, err := export.Write(cfg, sampleTranscript(), export.FormatMarkdown)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("path = %q, want .md suffix", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if !strings.Contains(string(data), "# Weekly Sync") {
		t.Error("exported file missing rendered content")
	}
}

func TestWriteWithoutSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := export.Write(cfg, export.Transcript{}, export.FormatText); err == nil {
		t.Fatal("Write without session succeeded, want error")
	}
}
