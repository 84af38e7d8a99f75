package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewLogger creates a logger using a custom writer
func NewLogger(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(NewColorHandler(w, color, &slog.HandlerOptions{
		Level: level,
	}))
}

// ParseLevel maps a config string such as "debug" or "WARN" to a level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
