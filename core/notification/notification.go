package notification

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gaze-network/ticket-ledger/common"
)

// Topics published by the ledgers.
const (
	TopicRegistryInitialized = "registry.initialized"
	TopicEventRegistered     = "registry.event_registered"
	TopicEventStatusUpdated  = "registry.event_status_updated"
	TopicPaymentInitialized  = "payment.initialized"
	TopicPaymentProcessed    = "payment.processed"
	TopicPaymentConfirmed    = "payment.confirmed"
	TopicPaymentFailed       = "payment.failed"
)

// Event is a fire-and-forget notification emitted by a contract during an invocation.
// It is delivered only after the invocation committed.
type Event struct {
	Contract  common.Address  `json:"contract"`
	Topic     string          `json:"topic"`
	Timestamp uint64          `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Notifier delivers committed notifications to the outside world.
type Notifier interface {
	Notify(ctx context.Context, events []Event) error
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(ctx context.Context, events []Event) error

func (f NotifierFunc) Notify(ctx context.Context, events []Event) error {
	return f(ctx, events)
}

// Nop discards every notification.
var Nop Notifier = NotifierFunc(func(context.Context, []Event) error { return nil })

// Recorder keeps delivered notifications in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(_ context.Context, events []Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

// Events returns a copy of the recorded notifications.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Topics returns the recorded topics in delivery order.
func (r *Recorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	topics := make([]string, 0, len(r.events))
	for _, e := range r.events {
		topics = append(topics, e.Topic)
	}
	return topics
}

// Reset drops the recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
