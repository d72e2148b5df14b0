package notifier

import (
	"context"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/core/notification"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "ticket-ledger"

type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"` // Default is ticket-ledger
}

// Publisher is the subset of *amqp.Channel used by AMQP.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQP publishes every notification to a topic exchange with the topic as routing key.
type AMQP struct {
	publisher Publisher
	exchange  string
	closeFn   func() error
}

func NewAMQP(publisher Publisher, exchange string) *AMQP {
	return &AMQP{
		publisher: publisher,
		exchange:  utils.Default(exchange, DefaultExchange),
		closeFn:   func() error { return nil },
	}
}

// DialAMQP connects to the broker and declares a durable topic exchange.
func DialAMQP(config AMQPConfig) (*AMQP, error) {
	if config.URL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "notifier.amqp.url config is required if amqp is enabled")
	}
	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, errors.Wrap(err, "can't dial amqp broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "can't open amqp channel")
	}
	n := NewAMQP(ch, config.Exchange)
	if err := ch.ExchangeDeclare(n.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrapf(err, "can't declare exchange %q", n.exchange)
	}
	n.closeFn = func() error {
		return errors.Join(ch.Close(), conn.Close())
	}
	return n, nil
}

func (n *AMQP) Notify(ctx context.Context, events []notification.Event) error {
	for _, event := range events {
		msg := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Unix(int64(event.Timestamp), 0).UTC(),
			Type:         event.Topic,
			AppId:        event.Contract.String(),
			Body:         event.Payload,
		}
		if err := n.publisher.PublishWithContext(ctx, n.exchange, event.Topic, false, false, msg); err != nil {
			return errors.Wrapf(err, "can't publish %q notification", event.Topic)
		}
	}
	return nil
}

func (n *AMQP) Close() error {
	return errors.WithStack(n.closeFn())
}
