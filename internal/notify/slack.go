package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SlackSink posts events to a Slack incoming webhook
type SlackSink struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlackSink creates a sink for webhookURL
func NewSlackSink(webhookURL string, timeout time.Duration) *SlackSink {
	return &SlackSink{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *SlackSink) Name() string { return "slack" }

// Send posts e as a single colored attachment
func (s *SlackSink) Send(ctx context.Context, e Event) error {
	payload, err := json.Marshal(buildSlackMessage(e))
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func buildSlackMessage(e Event) map[string]interface{} {
	color := "#36a64f"
	switch e.Priority {
	case PriorityCritical:
		color = "#ff0000"
	case PriorityHigh:
		color = "#ff8c00"
	case PriorityMedium:
		color = "#ffcc00"
	}

	emoji := ":bell:"
	switch e.Type {
	case EventWorkflowSubmitted:
		emoji = ":inbox_tray:"
	case EventSubscriptionActivated:
		emoji = ":white_check_mark:"
	case EventCancelFailed, EventReconcileFailed, EventPaidNotActivated:
		emoji = ":rotating_light:"
	}

	return map[string]interface{}{
		"attachments": []map[string]interface{}{
			{
				"color":  color,
				"title":  fmt.Sprintf("%s %s", emoji, e.Title),
				"text":   e.Message,
				"footer": "Processimo",
				"ts":     e.At.Unix(),
			},
		},
	}
}
