// Package notifications pushes prep results to ntfy when a topic is
// configured. Long dataset downloads run unattended; a push on completion or
// failure beats watching a terminal.
package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ocrprep/internal/config"
)

const userAgent = "ocrprep/0.1.0"

// Service defines the notification surface exposed to the CLI.
type Service interface {
	NotifyRunCompleted(ctx context.Context, kind string, rows, chars int, duration time.Duration) error
	NotifyRunFailed(ctx context.Context, kind string, cause error) error
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
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, kind string, rows, chars int, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	message := fmt.Sprintf("%s complete: %d rows in %s", kind, rows, duration)
	if chars > 0 {
		message = fmt.Sprintf("%s complete: %d rows, %d dictionary characters in %s", kind, rows, chars, duration)
	}
	data := payload{
		title:   "ocrprep - Complete",
		message: message,
		tags:    []string{"ocrprep", kind, "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, kind string, cause error) error {
	var builder strings.Builder
	builder.WriteString("Error during ")
	builder.WriteString(kind)
	builder.WriteString(": ")
	if cause != nil {
		builder.WriteString(strings.TrimSpace(cause.Error()))
	} else {
		builder.WriteString("unknown")
	}
	data := payload{
		title:    "ocrprep - Error",
		message:  builder.String(),
		tags:     []string{"ocrprep", kind, "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "ocrprep - Test",
		message:  "Notification system test",
		tags:     []string{"ocrprep", "test"},
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

func (noopService) NotifyRunCompleted(context.Context, string, int, int, time.Duration) error {
	return nil
}

func (noopService) NotifyRunFailed(context.Context, string, error) error {
	return nil
}

func (noopService) TestNotification(context.Context) error {
	return nil
}
