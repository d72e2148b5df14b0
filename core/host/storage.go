package host

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/core/storage"
)

// Storage is the view of one namespace inside the invocation transaction.
type Storage struct {
	ctx       context.Context
	tx        storage.Tx
	namespace string
}

func (s *Storage) Namespace() string {
	return s.namespace
}

// Get returns the raw value of key. ok is false if the key doesn't exist.
func (s *Storage) Get(key string) (value []byte, ok bool, err error) {
	value, err = s.tx.Get(s.ctx, s.namespace, key)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, false, nil
		}
		return nil, false, errors.WithStack(err)
	}
	return value, true, nil
}

func (s *Storage) Set(key string, value []byte) error {
	return errors.WithStack(s.tx.Set(s.ctx, s.namespace, key, value))
}

func (s *Storage) Has(key string) (bool, error) {
	_, ok, err := s.Get(key)
	return ok, err
}

// GetJSON decodes the value of key into out. ok is false if the key doesn't exist.
func (s *Storage) GetJSON(key string, out any) (ok bool, err error) {
	value, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(value, out); err != nil {
		return false, errors.Wrapf(err, "can't decode %s/%s", s.namespace, key)
	}
	return true, nil
}

func (s *Storage) SetJSON(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "can't encode %s/%s", s.namespace, key)
	}
	return s.Set(key, b)
}
