package redis

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxCommit(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := New(db, "test")

	mock.ExpectGet("test:ns:event:e1").RedisNil()
	mock.ExpectTxPipeline()
	mock.ExpectSet("test:ns:event:e1", "v2", 0).SetVal("OK")
	mock.ExpectSet("test:ns:organizer_events:o", "[\"e1\"]", 0).SetVal("OK")
	mock.ExpectTxPipelineExec()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	_, err = tx.Get(ctx, "ns", "event:e1")
	assert.True(t, errors.Is(err, errs.NotFound))

	require.NoError(t, tx.Set(ctx, "ns", "event:e1", []byte("v1")))
	require.NoError(t, tx.Set(ctx, "ns", "organizer_events:o", []byte(`["e1"]`)))
	require.NoError(t, tx.Set(ctx, "ns", "event:e1", []byte("v2")))

	// served from the write buffer, no redis call expected
	value, err := tx.Get(ctx, "ns", "event:e1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)

	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRollbackWritesNothing(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := New(db, "")

	mock.ExpectGet("ticket-ledger:ns:key").SetVal("stored")

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	value, err := tx.Get(ctx, "ns", "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("stored"), value)

	require.NoError(t, tx.Set(ctx, "ns", "key", []byte("changed")))
	require.NoError(t, tx.Rollback(ctx))

	_, err = tx.Get(ctx, "ns", "key")
	assert.True(t, errors.Is(err, errs.Closed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetError(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := New(db, "test")

	mock.ExpectGet("test:ns:key").SetErr(errors.New("connection refused"))

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	_, err = tx.Get(ctx, "ns", "key")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errs.NotFound))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := New(db, "test")

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, store.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("down"))
	assert.Error(t, store.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
