// Package logging builds the diagnostic logger used across cyclereport.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/huangsam/cyclereport/schema"
	"github.com/m-mizutani/clog"
	"golang.org/x/term"
)

// NewLogger creates a slog.Logger for the given format.
// Auto picks colored console output on a terminal and JSON otherwise.
func NewLogger(level slog.Level, w io.Writer, format schema.LogFormat) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	var handler slog.Handler
	switch format {
	case schema.ConsoleLogFormat:
		handler = consoleHandler(level, w)
	case schema.JSONLogFormat:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		if IsTerminal(w) {
			handler = consoleHandler(level, w)
		} else {
			handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
		}
	}
	return slog.New(handler)
}

// Setup builds a logger and installs it as the process default.
func Setup(level slog.Level, format schema.LogFormat) *slog.Logger {
	logger := NewLogger(level, os.Stderr, format)
	slog.SetDefault(logger)
	return logger
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func consoleHandler(level slog.Level, w io.Writer) slog.Handler {
	return clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithTimeFmt("15:04:05"),
		clog.WithSource(false),
	)
}
