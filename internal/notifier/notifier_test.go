package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/notification"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEvents = []notification.Event{
	{
		Contract:  common.NewContractAddress(common.NetworkDevnet, "ticket_payment"),
		Topic:     notification.TopicPaymentProcessed,
		Timestamp: 1_700_000_000,
		Payload:   json.RawMessage(`{"payment_id":"PAY-1"}`),
	},
	{
		Contract:  common.NewContractAddress(common.NetworkDevnet, "ticket_payment"),
		Topic:     notification.TopicPaymentConfirmed,
		Timestamp: 1_700_000_001,
		Payload:   json.RawMessage(`{"payment_id":"PAY-1"}`),
	},
}

func TestMulti(t *testing.T) {
	first, second := &notification.Recorder{}, &notification.Recorder{}
	require.NoError(t, Multi{first, second, Log{}}.Notify(context.Background(), testEvents))
	assert.Equal(t, testEvents, first.Events())
	assert.Equal(t, testEvents, second.Events())

	errFailed := errors.New("failed")
	failing := notification.NotifierFunc(func(context.Context, []notification.Event) error {
		return errFailed
	})
	err := Multi{first, failing}.Notify(context.Background(), testEvents)
	assert.True(t, errors.Is(err, errFailed))

	assert.NoError(t, Multi{}.Notify(context.Background(), testEvents))
}

func TestWebhook(t *testing.T) {
	var (
		mu       sync.Mutex
		received WebhookPayload
		header   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		header = r.Header.Get("X-Api-Key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	webhook, err := NewWebhook(WebhookConfig{
		URL:     server.URL,
		Headers: map[string]string{"X-Api-Key": "secret"},
	})
	require.NoError(t, err)
	require.NoError(t, webhook.Notify(context.Background(), testEvents))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "secret", header)
	require.Len(t, received.Events, 2)
	assert.Equal(t, notification.TopicPaymentProcessed, received.Events[0].Topic)
	assert.JSONEq(t, `{"payment_id":"PAY-1"}`, string(received.Events[1].Payload))
}

func TestWebhookErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	webhook, err := NewWebhook(WebhookConfig{URL: server.URL})
	require.NoError(t, err)
	assert.Error(t, webhook.Notify(context.Background(), testEvents))

	_, err = NewWebhook(WebhookConfig{})
	assert.Error(t, err)
}

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakePublisher struct {
	published []publishedMessage
	err       error
}

func (p *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedMessage{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestAMQP(t *testing.T) {
	publisher := &fakePublisher{}
	n := NewAMQP(publisher, "")
	require.NoError(t, n.Notify(context.Background(), testEvents))

	require.Len(t, publisher.published, 2)
	for i, p := range publisher.published {
		assert.Equal(t, DefaultExchange, p.exchange)
		assert.Equal(t, testEvents[i].Topic, p.key)
		assert.Equal(t, "application/json", p.msg.ContentType)
		assert.Equal(t, amqp.Persistent, p.msg.DeliveryMode)
		assert.Equal(t, []byte(testEvents[i].Payload), p.msg.Body)
		assert.Equal(t, int64(testEvents[i].Timestamp), p.msg.Timestamp.Unix())
	}
	assert.NoError(t, n.Close())

	publisher.err = errors.New("channel closed")
	assert.Error(t, n.Notify(context.Background(), testEvents))

	_, err := DialAMQP(AMQPConfig{})
	assert.Error(t, err)
}

func TestMultiClose(t *testing.T) {
	n := NewAMQP(&fakePublisher{}, "")
	closed := false
	n.closeFn = func() error {
		closed = true
		return nil
	}
	require.NoError(t, Multi{Log{}, n}.Close())
	assert.True(t, closed)
}
