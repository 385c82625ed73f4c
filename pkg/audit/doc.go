// Package audit records location-engine side effects for later inspection.
//
// The resolution engine mutates state in two places that operators care
// about after the fact: descriptor rebinds (a "read" of an alias URL that
// changed a canonical base URL) and context changes (environment,
// residency or datacenter rebinding of a session). This package persists
// both as an append-only event trail in SQLite.
//
// The Recorder implements location.Hook, receives events on the engine's
// calling goroutine and hands them to a background writer over a buffered
// channel, so recording never blocks a lookup. Events are dropped, with a
// counter, when the buffer is full.
//
// Retention is handled by a Pruner, optionally driven by a cron schedule.
package audit
