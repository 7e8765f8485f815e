package app

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLogLevel parses a level name. Unknown names map to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at level. Every record
// carries the session id.
func NewLogger(w io.Writer, level slog.Level, sessionID string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("session", sessionID)
}

// WithComponent returns a logger with the component attribute set.
func WithComponent(l *slog.Logger, component string) *slog.Logger {
	return l.With("component", component)
}
