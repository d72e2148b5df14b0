package errs

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/withstack"
)

// PublicError carries a message that is safe to return to API clients. The
// HTTP error handler renders it as a 400 response.
type PublicError struct {
	err     error
	message string
}

func (p *PublicError) Error() string {
	return p.err.Error()
}

func (p *PublicError) Message() string {
	return p.message
}

func (p *PublicError) Unwrap() error {
	return p.err
}

// WithPublicMessage exposes err to clients, prefixed with prefix if non-empty.
func WithPublicMessage(err error, prefix string) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if prefix != "" {
		message = prefix + ": " + message
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: message}, 1)
}

// Validationf reports a malformed request. The error matches InvalidArgument.
func Validationf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return withstack.WithStackDepth(&PublicError{
		err:     errors.Wrap(InvalidArgument, msg),
		message: "validation error: " + msg,
	}, 1)
}
