package vuefire

import (
	"log/slog"

	"github.com/faresg/vuefire/internal/logging"
)

// NewSlogLogger wraps an slog.Logger as the Logger consumed by WithLogger.
func NewSlogLogger(logger *slog.Logger) Logger {
	return logging.NewSlog(logger)
}

// NewSlogDefaultLogger returns a Logger backed by slog.Default.
func NewSlogDefaultLogger() Logger {
	return logging.NewSlogDefault()
}

// NewNopLogger returns a Logger that discards everything. This is the
// default when WithLogger is not supplied.
func NewNopLogger() Logger {
	return logging.NewNop()
}
