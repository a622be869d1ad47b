// README: Structured JSON logger shared by the API server and background tickers.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a JSON slog logger at the configured level.
func New(level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFromString(level)}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func levelFromString(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
