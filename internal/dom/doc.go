// Package dom reads caption text out of a live browser page. It resolves
// per-platform CSS selector lists against the page, applies the platform's
// content-shape filter, and bridges DOM mutation events into the capture
// controller's notification channel.
package dom
