package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithGeneration returns a logger with generation context fields attached.
// Use this for all logging within a single get-or-generate flow.
func WithGeneration(generationID, topic string) *slog.Logger {
	return slog.With(
		"generation_id", generationID,
		"topic", topic,
	)
}

// WithUser returns a logger scoped to one auth subject.
func WithUser(logger *slog.Logger, uid string) *slog.Logger {
	return logger.With("uid", uid)
}
