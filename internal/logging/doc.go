// Package logging assembles the structured slog loggers used across the
// lead-magnet client.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes attr helpers so components emit log lines with a consistent shape.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
