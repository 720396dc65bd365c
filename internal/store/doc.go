// Package store persists capture sessions and their caption events in
// SQLite. It is the durable side of the pipeline: the capture controller
// hands finalized events to the store, and the export and API layers read
// them back. The schema is created on first open and verified by version
// on every subsequent open.
package store
