// Package logging constructs the slog loggers used across the daemon and CLI,
// with console or JSON output and rotating file copies.
package logging
