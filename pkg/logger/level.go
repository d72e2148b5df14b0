package logger

import (
	"fmt"
	"log/slog"
)

// Levels above slog.LevelError. Both terminate the process after logging.
const (
	LevelPanic = slog.Level(12)
	LevelFatal = slog.Level(16)
)

func levelName(l slog.Level) string {
	name := func(base string, offset slog.Level) string {
		if offset == 0 {
			return base
		}
		return fmt.Sprintf("%s%+d", base, offset)
	}
	switch {
	case l < LevelPanic:
		return l.String()
	case l < LevelFatal:
		return name("PANIC", l-LevelPanic)
	default:
		return name("FATAL", l-LevelFatal)
	}
}

func levelAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) != 0 || attr.Key != LevelKey {
		return attr
	}
	if l, ok := attr.Value.Any().(slog.Level); ok && l >= LevelPanic {
		return slog.String(attr.Key, levelName(l))
	}
	return attr
}
