// Package daemon hosts the long-running capture process. It owns the
// single-instance lock, the session lifecycle (browser attach, capture
// controller, persistence, notifications), and the local HTTP API that
// mirrors the control surface exposed over IPC.
package daemon
