package redis

import (
	"context"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/core/storage"
	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "ticket-ledger"

type Config struct {
	Addr      string `mapstructure:"addr"` // Default is localhost:6379
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"` // Default is ticket-ledger
}

var _ storage.Store = (*Store)(nil)

// Store keeps every entry as a redis string under "<prefix>:<namespace>:<key>".
// Writes are buffered and applied atomically with MULTI/EXEC on commit.
type Store struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewClient creates a redis client from config and checks the connection.
func NewClient(ctx context.Context, conf Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     utils.Default(conf.Addr, "localhost:6379"),
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to redis")
	}
	return client, nil
}

func New(client redis.UniversalClient, keyPrefix string) *Store {
	return &Store{
		client:    client,
		keyPrefix: utils.Default(keyPrefix, DefaultKeyPrefix),
	}
}

func (s *Store) key(namespace, key string) string {
	return strings.Join([]string{s.keyPrefix, namespace, key}, ":")
}

func (s *Store) Begin(_ context.Context) (storage.Tx, error) {
	return &Tx{
		store:  s,
		writes: make(map[string]string),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "redis ping failed")
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	return errors.WithStack(s.client.Close())
}

type Tx struct {
	store  *Store
	writes map[string]string
	order  []string
	closed bool
}

func (t *Tx) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if t.closed {
		return nil, errors.Wrap(errs.Closed, "transaction is closed")
	}
	k := t.store.key(namespace, key)
	if value, ok := t.writes[k]; ok {
		return []byte(value), nil
	}
	value, err := t.store.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrapf(err, "failed to get %s", k)
	}
	return value, nil
}

func (t *Tx) Set(_ context.Context, namespace, key string, value []byte) error {
	if t.closed {
		return errors.Wrap(errs.Closed, "transaction is closed")
	}
	k := t.store.key(namespace, key)
	if _, ok := t.writes[k]; !ok {
		t.order = append(t.order, k)
	}
	t.writes[k] = string(value)
	return nil
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return nil
	}
	defer t.close()
	if len(t.order) == 0 {
		return nil
	}
	_, err := t.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range t.order {
			pipe.Set(ctx, k, t.writes[k], 0)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func (t *Tx) Rollback(_ context.Context) error {
	t.close()
	return nil
}

func (t *Tx) close() {
	t.closed = true
	t.writes = nil
	t.order = nil
}
