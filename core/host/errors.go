package host

import "github.com/cockroachdb/errors"

var (
	// ErrUnauthorized is returned when a required capability proof is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientBalance is returned when a transfer exceeds the sender balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrTransferFailed is returned for any other rejected transfer.
	ErrTransferFailed = errors.New("transfer failed")
)
