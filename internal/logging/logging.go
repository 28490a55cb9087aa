// Package logging provides structured logging setup for propdesk.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the default slog logger.
// Dev mode uses human-readable text; prod uses JSON.
func Setup(devMode bool) {
	slog.SetDefault(slog.New(newHandler(os.Stdout, devMode)))
}

func newHandler(w io.Writer, devMode bool) slog.Handler {
	if devMode {
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
