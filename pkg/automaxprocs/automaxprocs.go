// Package automaxprocs sizes GOMAXPROCS to the container CPU quota.
package automaxprocs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

var undo func()

// Init sets GOMAXPROCS from the Linux CPU quota. It is a no-op elsewhere and
// honors an explicit GOMAXPROCS environment variable.
func Init() error {
	log := logger.With(
		slogx.String("package", "automaxprocs"),
		slogx.Int("prev_maxprocs", runtime.GOMAXPROCS(0)),
	)
	printf := func(format string, v ...any) {
		var attrs []slog.Attr
		// maxprocs passes the new value as the only argument, except on undo
		if val, ok := utils.Optional(v); ok {
			if _, exists := os.LookupEnv("GOMAXPROCS"); exists {
				val = runtime.GOMAXPROCS(0)
			}
			if n, ok := val.(int); ok {
				attrs = append(attrs, slogx.Int("set_maxprocs", n))
			}
		}
		log.LogAttrs(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...), attrs...)
	}

	revert, err := maxprocs.Set(maxprocs.Logger(printf), maxprocs.Min(1))
	if err != nil {
		return errors.Wrap(err, "failed to set GOMAXPROCS")
	}
	undo = revert
	return nil
}

// Undo restores the GOMAXPROCS value seen before Init.
func Undo() {
	if undo != nil {
		undo()
	}
}
