// Package notifications delivers session lifecycle events via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured
// in config.toml and gracefully degrades to a no-op when notifications are
// disabled. Session and error events can be toggled independently so a
// noisy capture setup can keep error alerts without per-session chatter.
package notifications
