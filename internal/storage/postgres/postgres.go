package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/core/storage"
	"github.com/gaze-network/ticket-ledger/internal/postgres"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	getEntryQuery = `SELECT "value" FROM "kv_entries" WHERE "namespace" = $1 AND "key" = $2`
	setEntryQuery = `INSERT INTO "kv_entries" ("namespace", "key", "value", "updated_at") VALUES ($1, $2, $3, NOW())
		ON CONFLICT ("namespace", "key") DO UPDATE SET "value" = EXCLUDED."value", "updated_at" = EXCLUDED."updated_at"`
)

var _ storage.Store = (*Store)(nil)

// Store keeps entries in the "kv_entries" table. Apply the migrations before use.
type Store struct {
	db      postgres.DB
	closeFn func()
}

// New creates a store on db. closeFn is called by Close, it may be nil.
func New(db postgres.DB, closeFn func()) *Store {
	return &Store{
		db:      db,
		closeFn: closeFn,
	}
}

func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	return &Tx{tx: tx}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return errors.WithStack(s.db.Ping(ctx))
}

func (s *Store) Close(_ context.Context) error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

type Tx struct {
	tx pgx.Tx
}

func (t *Tx) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if t.tx == nil {
		return nil, errors.Wrap(errs.Closed, "transaction is closed")
	}
	var value []byte
	if err := t.tx.QueryRow(ctx, getEntryQuery, namespace, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrapf(err, "failed to get entry %s/%s", namespace, key)
	}
	return value, nil
}

func (t *Tx) Set(ctx context.Context, namespace, key string, value []byte) error {
	if t.tx == nil {
		return errors.Wrap(errs.Closed, "transaction is closed")
	}
	if _, err := t.tx.Exec(ctx, setEntryQuery, namespace, key, value); err != nil {
		return errors.Wrapf(err, "failed to set entry %s/%s", namespace, key)
	}
	return nil
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.tx == nil {
		return nil
	}
	err := t.tx.Commit(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	t.tx = nil
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if t.tx == nil {
		return nil
	}
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Wrap(err, "failed to rollback transaction")
	}
	if err == nil {
		logger.DebugContext(ctx, "rolled back transaction")
	}
	t.tx = nil
	return nil
}
