// Package logging configures the process-wide slog logger. Logging is
// best-effort and append-only; a missing or unwritable log file silently
// degrades to a no-op logger and never changes search behavior.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a logger writing to path, plus a close func. With an empty
// path (or an unopenable file) the logger discards everything.
func New(path string, debug bool) (*slog.Logger, func()) {
	if path == "" {
		return Nop(), func() {}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Nop(), func() {}
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(handler), func() { f.Close() }
}

// Nop returns a logger that drops every record.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
