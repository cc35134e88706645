// Package registration hosts the event-sourced conference registration
// engine.
//
// One journal per conference holds three append-only event logs. All current
// state is derived by replaying a log into an ephemeral read model, commands
// append success or rejection events, and saves use optimistic concurrency:
// a version conflict discards the in-memory work and re-runs the command
// against a fresh load. There are no locks anywhere in the domain.
package registration
