package testsupport

import (
	"io"
	"log/slog"
)

// NewLogger returns a logger that discards output.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
