// Package logging provides the structured logger used across the module.
package logging

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger so callers depend on one local type instead of
// wiring handlers themselves.
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger at the given level. Unknown levels fall back
// to info.
func New(level string) *Logger {
	var lvl slog.Level

	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return &Logger{Logger: slog.New(handler)}
}

// Default returns an info-level logger.
func Default() *Logger {
	return New("info")
}

// Named returns a child logger tagged with a component name.
func (l *Logger) Named(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}
