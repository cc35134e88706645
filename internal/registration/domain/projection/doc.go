// Package projection derives read models from a conference journal.
//
// Read models are never persisted. Each is a pure fold over one event log,
// rebuilt fresh for every command or query, so a reader always sees true
// committed state plus whatever the current command execution has appended.
// For scalar fields and per-key quotas the last event in log order wins.
package projection
