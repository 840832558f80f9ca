// Package logging configures log/slog for the tzselect commands and adds the
// trace and fatal levels.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

var ErrLevel = errors.New(`the loglevel value must be a prefix of one of these words, "trace", "debug", "info", "warning", "error" or "fatal"`)

// Custom Logger methods for Trace and Fatal
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

func Fatal(msg string, args ...any) {
	slog.Log(context.Background(), LevelFatal, msg, args...)
	os.Exit(1) // Terminate the program after logging
}

// TraceEnabled is true when trace records reach the default handler.
func TraceEnabled() bool {
	return slog.Default().Enabled(context.Background(), LevelTrace)
}

// ParseLevel accepts any non-empty prefix of a level name, so "w" and
// "warn" both mean warning.
func ParseLevel(value string) (slog.Level, error) {
	lv := strings.ToLower(strings.TrimSpace(value))
	if lv == "" {
		return 0, ErrLevel
	}
	switch {
	case strings.HasPrefix("trace", lv):
		return LevelTrace, nil
	case strings.HasPrefix("debug", lv):
		return slog.LevelDebug, nil
	case strings.HasPrefix("info", lv):
		return slog.LevelInfo, nil
	case strings.HasPrefix("warning", lv):
		return slog.LevelWarn, nil
	case strings.HasPrefix("error", lv):
		return slog.LevelError, nil
	case strings.HasPrefix("fatal", lv):
		return LevelFatal, nil
	}
	return 0, ErrLevel
}

// replaceLevel gives the custom levels readable names in output.
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) != 0 {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch level {
	case LevelTrace:
		a.Value = slog.StringValue("TRACE")
	case LevelFatal:
		a.Value = slog.StringValue("FATAL")
	}
	return a
}

// Setup installs a text handler writing to w at level as the default logger.
// A nil w discards everything.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
