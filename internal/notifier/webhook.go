package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/pkg/httpclient"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
)

type WebhookConfig struct {
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Debug   bool              `mapstructure:"debug"`
}

// Webhook posts notifications as a JSON batch to a single endpoint.
type Webhook struct {
	httpClient *httpclient.Client
}

type WebhookPayload struct {
	Events []notification.Event `json:"events"`
}

func NewWebhook(config WebhookConfig) (*Webhook, error) {
	if config.URL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "notifier.webhook.url config is required if webhook is enabled")
	}
	httpClient, err := httpclient.New(config.URL, httpclient.Config{
		Debug:   config.Debug,
		Headers: config.Headers,
		Timeout: config.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &Webhook{
		httpClient: httpClient,
	}, nil
}

func (w *Webhook) Notify(ctx context.Context, events []notification.Event) error {
	resp, err := w.httpClient.PostJSON(ctx, "", WebhookPayload{Events: events})
	if err != nil {
		return errors.Wrap(err, "can't send webhook request")
	}
	if resp.IsError() {
		return errors.Errorf("webhook responded with status %d: %s", resp.StatusCode, string(resp.Body))
	}
	logger.DebugContext(ctx, "notifications delivered to webhook", slog.Int("count", len(events)))
	return nil
}
