package storage

import (
	"context"
)

// Store is a flat key-value store. Keys live inside a namespace, there is no iteration and no
// secondary indexing.
type Store interface {
	// Begin starts a transaction. Reads observe writes made earlier in the same transaction.
	Begin(ctx context.Context) (Tx, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend resources.
	Close(ctx context.Context) error
}

type Tx interface {
	// Get returns the value of the key. It returns errs.NotFound if the key doesn't exist.
	Get(ctx context.Context, namespace, key string) ([]byte, error)

	// Set writes the value of the key.
	Set(ctx context.Context, namespace, key string, value []byte) error

	// Commit commits the transaction. All changes made after Begin() will be persisted. Calling Commit() will close the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction. All changes made after Begin() will be discarded.
	// Rollback() must be safe to call even after Commit(). Hence, a defer Rollback() is safe, even if Commit() was called prior with non-error conditions.
	Rollback(ctx context.Context) error
}
