package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"captive/internal/config"
)

const userAgent = "Captive/0.1.0"

// Service defines the notification surface exposed to the daemon.
type Service interface {
	NotifySessionStarted(ctx context.Context, sessionID, platform string) error
	NotifySessionEnded(ctx context.Context, sessionID string, captions int, duration time.Duration) error
	NotifyExportCompleted(ctx context.Context, sessionID, path string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		sessions: cfg.Notifications.Sessions,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	sessions bool
	errors   bool
}

func (n *ntfyService) NotifySessionStarted(ctx context.Context, sessionID, platform string) error {
	if !n.sessions {
		return nil
	}
	data := payload{
		title:   "Captive - Session Started",
		message: fmt.Sprintf("Capturing captions on %s (session %s)", strings.TrimSpace(platform), strings.TrimSpace(sessionID)),
		tags:    []string{"captive", "session", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionEnded(ctx context.Context, sessionID string, captions int, duration time.Duration) error {
	if !n.sessions {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	data := payload{
		title:   "Captive - Session Ended",
		message: fmt.Sprintf("Session %s captured %d captions in %s", strings.TrimSpace(sessionID), captions, duration),
		tags:    []string{"captive", "session", "ended"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExportCompleted(ctx context.Context, sessionID, path string) error {
	if !n.sessions {
		return nil
	}
	message := fmt.Sprintf("Transcript exported for session %s", strings.TrimSpace(sessionID))
	if path = strings.TrimSpace(path); path != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, path)
	}
	data := payload{
		title:   "Captive - Export Complete",
		message: message,
		tags:    []string{"captive", "export", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Captive - Error",
		message:  builder.String(),
		tags:     []string{"captive", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Captive - Test",
		message:  "Notification system test",
		tags:     []string{"captive", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySessionStarted(context.Context, string, string) error { return nil }
func (noopService) NotifySessionEnded(context.Context, string, int, time.Duration) error {
	return nil
}
func (noopService) NotifyExportCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error            { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
