package logger

import (
	"context"
	"log/slog"
)

type (
	handleFunc func(context.Context, slog.Record) error
	middleware func(handleFunc) handleFunc
)

// chainHandler runs records through middlewares before the wrapped handler.
// The first middleware sees the record first.
type chainHandler struct {
	next        slog.Handler
	middlewares []middleware
	handle      handleFunc
}

func newChainHandlers(next slog.Handler, middlewares ...middleware) slog.Handler {
	if len(middlewares) == 0 {
		return next
	}
	h := next.Handle
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return &chainHandler{next: next, middlewares: middlewares, handle: h}
}

func (c *chainHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return c.next.Enabled(ctx, lvl)
}

func (c *chainHandler) Handle(ctx context.Context, rec slog.Record) error {
	return c.handle(ctx, rec)
}

func (c *chainHandler) WithGroup(group string) slog.Handler {
	return newChainHandlers(c.next.WithGroup(group), c.middlewares...)
}

func (c *chainHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newChainHandlers(c.next.WithAttrs(attrs), c.middlewares...)
}
