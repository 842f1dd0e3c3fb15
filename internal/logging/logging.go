// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Options selects level and output format
type Options struct {
	Level  string
	Format string
}

// New returns a slog logger writing to w. Unknown levels fall back to info
// and unknown formats to text.
func New(opts Options, w io.Writer) *slog.Logger {
	h := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, h)
	} else {
		handler = slog.NewTextHandler(w, h)
	}
	return slog.New(handler)
}

// ParseLevel maps debug|info|warn|error to a slog level
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
