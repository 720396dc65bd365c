package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"captive/internal/config"
	"captive/internal/store"
	"captive/internal/textutil"
)

// Format selects the transcript rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat resolves a user-supplied format name, accepting common
// aliases. An empty value defaults to text.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected text, markdown, or json)", value)
	}
}

func (f Format) extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// Transcript bundles one session with its ordered captions for rendering.
type Transcript struct {
	Session  *store.Session
	Captions []*store.Caption
}

// Render produces the transcript in the requested format.
func Render(tr Transcript, format Format) (string, error) {
	switch format {
	case FormatText:
		return renderText(tr), nil
	case FormatMarkdown:
		return renderMarkdown(tr), nil
	case FormatJSON:
		return renderJSON(tr)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// Write renders the transcript and writes it under the configured export
// directory, returning the file path.
func Write(cfg *config.Config, tr Transcript, format Format) (string, error) {
	if tr.Session == nil {
		return "", fmt.Errorf("no session to export")
	}
	content, err := Render(tr, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(cfg.Paths.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("transcript_%s_%s.%s", textutil.SanitizeFileName(tr.Session.ID), stamp, format.extension())
	path := filepath.Join(cfg.Paths.ExportDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

type jsonDocument struct {
	SessionID string        `json:"session_id"`
	Platform  string        `json:"platform"`
	Title     string        `json:"title,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
	Captions  []jsonCaption `json:"captions"`
}

type jsonCaption struct {
	SequenceIndex int       `json:"sequence_index"`
	Speaker       string    `json:"speaker,omitempty"`
	Text          string    `json:"text"`
	ObservedAt    time.Time `json:"observed_at"`
}

func renderJSON(tr Transcript) (string, error) {
	doc := jsonDocument{
		Captions: make([]jsonCaption, 0, len(tr.Captions)),
	}
	if tr.Session != nil {
		doc.SessionID = tr.Session.ID
		doc.Platform = tr.Session.Platform
		doc.Title = tr.Session.Title
		doc.StartedAt = tr.Session.StartedAt
		doc.EndedAt = tr.Session.EndedAt
	}
	for _, entry := range tr.Captions {
		doc.Captions = append(doc.Captions, jsonCaption{
			SequenceIndex: entry.SequenceIndex,
			Speaker:       entry.Speaker,
			Text:          entry.Text,
			ObservedAt:    entry.ObservedAt,
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}
	return string(data) + "\n", nil
}
