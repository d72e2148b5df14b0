package logger

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
)

// middlewareError adds the verbose form and the stack trace of the first
// error attr of a record.
func middlewareError() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			var err error
			rec.Attrs(func(attr slog.Attr) bool {
				if attr.Key != ErrorKey && attr.Key != "err" {
					return true
				}
				err, _ = attr.Value.Any().(error)
				return false
			})
			if err == nil {
				return next(ctx, rec)
			}

			rec.AddAttrs(slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
			if st, ok := err.(errbase.StackTraceProvider); ok {
				rec.AddAttrs(slog.Any(ErrorStackTraceKey, traceLines(st.StackTrace())))
			}
			return next(ctx, rec)
		}
	}
}

// errorAttrReplacer renders errors as their message, JSON handlers print `{}` otherwise.
func errorAttrReplacer(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key != ErrorKey {
		return attr
	}
	if err, ok := attr.Value.Any().(error); ok && err != nil {
		return slog.String(attr.Key, err.Error())
	}
	return attr
}

// traceLines formats frames outermost first, dropping the runtime frames at
// the bottom of the stack.
func traceLines(frames errbase.StackTrace) []string {
	lines := make([]string, 0, len(frames))
	skipping := true
	for i := len(frames) - 1; i >= 0; i-- {
		pc := uintptr(frames[i]) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			lines = append(lines, "unknown")
			skipping = false
			continue
		}
		if skipping && strings.HasPrefix(fn.Name(), "runtime.") {
			continue
		}
		skipping = false
		file, line := fn.FileLine(pc)
		lines = append(lines, fmt.Sprintf("%s %s:%d", fn.Name(), file, line))
	}
	return lines
}
