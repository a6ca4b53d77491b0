package application

import "log/slog"

// ResolveLogger falls back to the process default when a use case was built
// without an explicit logger.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
