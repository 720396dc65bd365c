// Package logging assembles the structured slog loggers used across captive
// components.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and standardizes the attribute keys (component, session_id,
// platform) that tie log lines from the capture pipeline together. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
