// Package logger builds the zerolog loggers used by every command.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zalepa/benito/parser"
)

type contextKey string

const loggerKey contextKey = "logger"

// New returns a console logger writing to w at the given level. Unknown
// level names fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Default is a stderr console logger at info level.
func Default() zerolog.Logger {
	return New(os.Stderr, "info")
}

// ParseLevel maps a level name such as "debug" or "WARN" to a zerolog level.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithContext stores log in ctx.
func WithContext(ctx context.Context, log zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger stored in ctx, or Default.
func FromContext(ctx context.Context) zerolog.Logger {
	if log, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return log
	}
	return Default()
}

// Diagnostics logs each dropped row or line group at warn level.
func Diagnostics(log zerolog.Logger, source string, diags []parser.Diagnostic) {
	for _, d := range diags {
		ev := log.Warn().
			Str("source", source).
			Str("kind", string(d.Kind))
		if d.Line > 0 {
			ev = ev.Int("line", d.Line)
		}
		if d.Field != "" {
			ev = ev.Str("field", d.Field)
		}
		if d.Value != "" {
			ev = ev.Str("value", d.Value)
		}
		ev.Msg(d.Message)
	}
}
