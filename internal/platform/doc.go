// Package platform knows where each supported site renders its live
// captions and how to tell caption text apart from the UI noise that shares
// the same DOM subtree.
//
// It exposes ordered per-platform CSS selector lists plus a content-shape
// filter for YouTube-class platforms, where pure selector matching picks up
// time displays, titles, and tooltips. The package is deliberately free of
// browser dependencies: extraction happens in internal/dom, which feeds the
// reduced Candidate form back through Accept.
package platform
