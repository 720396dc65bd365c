package scriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"captive/internal/config"
)

// ErrDisabled is returned when the companion service is not configured.
var ErrDisabled = errors.New("scriber service disabled")

// HTTPDoer describes the HTTP client used by the scriber client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Status mirrors the companion service's status report.
type Status struct {
	IsRecording          bool   `json:"is_recording"`
	WhisperLoaded        bool   `json:"whisper_loaded"`
	DiarizationAvailable bool   `json:"diarization_available"`
	SessionID            string `json:"session_id"`
	TranscriptCount      int    `json:"transcript_count"`
}

// Entry is one transcribed utterance from the companion service.
type Entry struct {
	// Timestamp is the service's ISO 8601 capture time, which may omit a
	// zone offset. Use Time to parse it.
	Timestamp  string  `json:"timestamp"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Speaker    string  `json:"speaker"`
}

// Time parses the entry timestamp, treating zone-less values as local time.
func (e Entry) Time() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, e.Timestamp); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05.999999", e.Timestamp, time.Local)
}

// Transcript is the companion service's rolling transcript buffer.
type Transcript struct {
	SessionID string  `json:"session_id"`
	Entries   []Entry `json:"transcript"`
}

// Client talks to the companion audio-transcription service over HTTP.
// The zero client (no base URL) reports ErrDisabled from every call.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// New builds a client from the config. When the scriber section is
// disabled or has no base URL, the returned client is inert.
func New(cfg *config.Config) *Client {
	if cfg == nil || !cfg.Scriber.Enabled {
		return &Client{}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Scriber.BaseURL), "/")
	if baseURL == "" {
		return &Client{}
	}
	timeout := time.Duration(cfg.Scriber.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewWithDoer builds a client against an explicit base URL and HTTP doer.
func NewWithDoer(baseURL string, doer HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  doer,
	}
}

// Enabled reports whether the client is configured to reach a service.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != "" && c.client != nil
}

// Status fetches the companion service's current state.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var status Status
	if err := c.get(ctx, "/api/status", &status); err != nil {
		return Status{}, err
	}
	return status, nil
}

// Start asks the companion service to begin transcribing. Starting while
// already recording is reported as an error by the service.
func (c *Client) Start(ctx context.Context, sessionTitle string) error {
	body := map[string]any{
		"video_info": map[string]string{"title": sessionTitle},
	}
	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/api/start", body, &result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("scriber start rejected: %s", result.Message)
	}
	return nil
}

// Stop asks the companion service to stop transcribing. Stopping an idle
// service is not an error.
func (c *Client) Stop(ctx context.Context) error {
	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/api/stop", nil, &result); err != nil {
		return err
	}
	return nil
}

// Transcript fetches the rolling transcript buffer.
func (c *Client) Transcript(ctx context.Context) (Transcript, error) {
	var tr Transcript
	if err := c.get(ctx, "/api/transcript", &tr); err != nil {
		return Transcript{}, err
	}
	return tr, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build scriber request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode scriber request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build scriber request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("scriber request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("scriber returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode scriber response: %w", err)
	}
	return nil
}
