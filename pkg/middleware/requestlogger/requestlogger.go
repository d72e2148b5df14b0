package requestlogger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"github.com/gaze-network/ticket-ledger/pkg/middleware/requestcontext"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type Config struct {
	WithRequestHeader    bool     `mapstructure:"request_header"`
	WithRequestQuery     bool     `mapstructure:"request_query"`
	Disable              bool     `mapstructure:"disable"` // Disable successful request logs
	HiddenRequestHeaders []string `mapstructure:"hidden_request_headers"`
}

// Authorization headers are never logged.
var defaultHiddenHeaders = []string{"authorization", "cookie", "x-api-key"}

// New logs every completed request. Client errors are logged at warn level and server errors at error level.
func New(config Config) fiber.Handler {
	hidden := lo.Associate(append(defaultHiddenHeaders, config.HiddenRequestHeaders...), func(h string) (string, struct{}) {
		return strings.ToLower(strings.TrimSpace(h)), struct{}{}
	})
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if fErr := (*fiber.Error)(nil); errors.As(err, &fErr) {
			status = fErr.Code
		} else if err != nil {
			status = http.StatusInternalServerError
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		if config.Disable && level == slog.LevelInfo {
			return errors.WithStack(err)
		}

		requestAttrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.String("ip", requestcontext.GetClientIP(c.UserContext())),
			slog.String("user_agent", string(c.Context().UserAgent())),
			slog.Int("length", len(c.Body())),
		}
		if config.WithRequestQuery {
			requestAttrs = append(requestAttrs, slog.String("query", string(c.Request().URI().QueryString())))
		}
		if config.WithRequestHeader {
			headers := make([]any, 0)
			for k, v := range c.GetReqHeaders() {
				if _, ok := hidden[strings.ToLower(k)]; !ok {
					headers = append(headers, slog.Any(k, v))
				}
			}
			requestAttrs = append(requestAttrs, slog.Group("header", headers...))
		}

		attrs := []slog.Attr{
			slog.Group("request", requestAttrs...),
			slog.Group("response", slog.Int("status", status), slog.Int("length", len(c.Response().Body()))),
			slogx.Duration("latency", latency),
		}
		if err != nil {
			attrs = append(attrs, slogx.Error(err))
		}
		logger.LogAttrs(c.UserContext(), level, "Request completed", attrs...)
		return errors.WithStack(err)
	}
}
