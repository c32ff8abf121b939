package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookService POSTs the alert JSON to a URL; any non-2xx status is an error
type WebhookService struct {
	client *resty.Client
	url    string
}

// NewWebhookService creates a webhook alert sink
func NewWebhookService(url string, timeout time.Duration, retries int) *WebhookService {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(retries)
	client.SetHeader("Content-Type", "application/json")
	return &WebhookService{client: client, url: url}
}

// Send POSTs one JSON Message; non-2xx responses are errors
func (s *WebhookService) Send(ctx context.Context, message string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(newMessage(ctx, message)).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("failed to call alert webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode())
	}
	return nil
}
