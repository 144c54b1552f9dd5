package server

import (
	"io"
	"log/slog"

	"videogen-gateway/internal/config"
)

// ConfigureLogging installs the process-wide slog handler: JSON in
// production, human-readable text otherwise.
func ConfigureLogging(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler).With("service", "videogen-gateway")
	slog.SetDefault(logger)
	return logger
}
