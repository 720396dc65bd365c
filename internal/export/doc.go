// Package export renders persisted caption sessions as plain text,
// markdown, or JSON transcripts.
package export
