package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/core/storage"
)

var _ storage.Store = (*Store)(nil)

// ErrTxClosed is returned when using a committed or rolled back transaction.
var ErrTxClosed = errors.Wrap(errs.Closed, "transaction is closed")

type entryKey struct {
	namespace string
	key       string
}

// Store is an in-memory storage.Store. Committed transactions are applied in commit order.
type Store struct {
	mu   sync.RWMutex
	data map[entryKey][]byte
}

func New() *Store {
	return &Store{
		data: make(map[entryKey][]byte),
	}
}

func (s *Store) Begin(_ context.Context) (storage.Tx, error) {
	return &Tx{
		store:  s,
		writes: make(map[entryKey][]byte),
	}, nil
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) Close(_ context.Context) error {
	return nil
}

// Len returns the number of committed keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

type Tx struct {
	store  *Store
	writes map[entryKey][]byte
	order  []entryKey
	closed bool
}

func (t *Tx) Get(_ context.Context, namespace, key string) ([]byte, error) {
	if t.closed {
		return nil, errors.WithStack(ErrTxClosed)
	}
	k := entryKey{namespace: namespace, key: key}
	if value, ok := t.writes[k]; ok {
		return bytes.Clone(value), nil
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	value, ok := t.store.data[k]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return bytes.Clone(value), nil
}

func (t *Tx) Set(_ context.Context, namespace, key string, value []byte) error {
	if t.closed {
		return errors.WithStack(ErrTxClosed)
	}
	k := entryKey{namespace: namespace, key: key}
	if _, ok := t.writes[k]; !ok {
		t.order = append(t.order, k)
	}
	t.writes[k] = bytes.Clone(value)
	return nil
}

func (t *Tx) Commit(_ context.Context) error {
	if t.closed {
		return errors.WithStack(ErrTxClosed)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, k := range t.order {
		t.store.data[k] = t.writes[k]
	}
	t.close()
	return nil
}

func (t *Tx) Rollback(_ context.Context) error {
	if t.closed {
		return nil
	}
	t.close()
	return nil
}

func (t *Tx) close() {
	t.closed = true
	t.writes = nil
	t.order = nil
}
