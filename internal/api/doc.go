// Package api defines wire-format types and converters for the IPC and
// HTTP API layer. It translates internal session and caption models into
// transport-friendly DTOs so remote consumers never couple to internal
// types.
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers.
// Timestamps use RFC3339 with milliseconds.
package api
