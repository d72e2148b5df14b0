// Package requestcontext copies request metadata into the fiber user context
// so handlers and the context logger can use it.
package requestcontext

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

// rejectError aborts the request with status and message.
type rejectError struct {
	status  int
	message string
}

func (r rejectError) Error() string {
	return r.message
}

func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var err error
		ctx := c.UserContext()
		for i, opt := range opts {
			ctx, err = opt(ctx, c)
			if err == nil {
				continue
			}
			var rErr rejectError
			if errors.As(err, &rErr) {
				return errors.WithStack(c.Status(rErr.status).JSON(common.HttpResponse[struct{}]{
					Error: lo.ToPtr(rErr.message),
				}))
			}
			logger.ErrorContext(ctx, "Failed to extract request context",
				slogx.Error(err),
				slog.String("module", "requestcontext"),
				slog.Int("option_index", i),
			)
			return errors.WithStack(c.Status(fiber.StatusInternalServerError).JSON(common.HttpResponse[struct{}]{
				Error: lo.ToPtr("internal server error"),
			}))
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
