package types

// Logger is the structured logging surface the binder emits its lifecycle
// and snapshot diagnostics through.
//
// Methods take a message plus alternating key-value pairs, so any structured
// logger (zap.SugaredLogger, an slog wrapper) satisfies it directly. The
// library logs batch application and re-targets at Debug, binding lifecycle
// transitions at Info, and upstream subscription failures at Error; it never
// calls Fatal itself.
type Logger interface {
	// Debug logs high-volume diagnostics such as applied batches and
	// discarded stale callbacks.
	Debug(msg string, keysAndValues ...any)

	// Info logs binding lifecycle transitions.
	Info(msg string, keysAndValues ...any)

	// Warn logs recoverable conditions, like a failed write awaiting
	// source compensation.
	Warn(msg string, keysAndValues ...any)

	// Error logs subscription and hook failures.
	Error(msg string, keysAndValues ...any)

	// Fatal logs an unrecoverable condition and terminates the process.
	// Implementations are expected to call os.Exit(1) after logging.
	Fatal(msg string, keysAndValues ...any)
}
