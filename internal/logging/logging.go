// Package logging builds the structured loggers used across wmstack.
//
// Components take a *slog.Logger. The handler behind it is a
// charmbracelet/log logger, which the daemon keeps so the level can follow
// config reloads.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a charm logger with timestamp formatting writing to w.
// Timestamps are formatted as "HH:MM:SS.ms".
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Slog wraps a charm logger as a slog.Logger.
func Slog(l *log.Logger) *slog.Logger {
	return slog.New(l)
}

// ParseLevel accepts debug, info, warn (or warning) and error.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", s)
}
