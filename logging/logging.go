package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Configure initializes the shared JSON logger. It is safe to call multiple times.
func Configure() *slog.Logger {
	once.Do(func() {
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
		logger = slog.New(handler)
	})
	return logger
}

// ConfigureText initializes the shared logger with a human-readable handler at
// the given level. Used by the CLI, where JSON logs would drown the report.
// The first Configure* call wins.
func ConfigureText(w io.Writer, level slog.Level) *slog.Logger {
	once.Do(func() {
		handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
		logger = slog.New(handler)
	})
	return logger
}

// Logger returns the configured slog logger, configuring it on first use if necessary.
func Logger() *slog.Logger {
	if logger == nil {
		return Configure()
	}
	return logger
}
