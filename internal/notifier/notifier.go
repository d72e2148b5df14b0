// Package notifier delivers committed ledger notifications to logs, webhooks and message brokers.
package notifier

import (
	"context"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Log     bool          `mapstructure:"log"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	AMQP    AMQPConfig    `mapstructure:"amqp"`
}

// Log writes every notification to the context logger.
type Log struct{}

func (Log) Notify(ctx context.Context, events []notification.Event) error {
	for _, event := range events {
		logger.InfoContext(ctx, "Notification",
			slog.String(logger.TopicKey, event.Topic),
			slogx.Contract(event.Contract),
			slog.Uint64("timestamp", event.Timestamp),
			slog.String("payload", string(event.Payload)),
		)
	}
	return nil
}

// Multi fans out notifications to all notifiers concurrently.
type Multi []notification.Notifier

func (m Multi) Notify(ctx context.Context, events []notification.Event) error {
	switch len(m) {
	case 0:
		return nil
	case 1:
		return errors.WithStack(m[0].Notify(ctx, events))
	}
	var eg errgroup.Group
	for _, n := range m {
		eg.Go(func() error {
			return errors.WithStack(n.Notify(ctx, events))
		})
	}
	return errors.WithStack(eg.Wait())
}

// Close closes every notifier that holds a connection.
func (m Multi) Close() error {
	var errList []error
	for _, n := range m {
		if closer, ok := n.(io.Closer); ok {
			errList = append(errList, closer.Close())
		}
	}
	return errors.Join(errList...)
}
