// Package command implements the write side of the registration engine:
// write models pairing fresh read models with append access to the journal,
// and command processors that record every decision as events. A declined
// command is a domain event, never an error; only malformed input surfaces
// as an error.
package command

import (
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
)

// Decision is the outcome of one command: the events it appended, in append
// order. The caller inspects the events to learn whether the command was
// accepted or declined.
type Decision struct {
	Events []event.Event
}

// Accept wraps the appended events into a decision.
func Accept(events ...event.Event) Decision {
	return Decision{Events: events}
}

// Accepted reports whether the command produced no rejection events.
func (d Decision) Accepted() bool {
	return !d.Rejected()
}

// Rejected reports whether any appended event records a declined command.
func (d Decision) Rejected() bool {
	for _, evt := range d.Events {
		if evt.Type.IsRejection() {
			return true
		}
	}
	return false
}

// Rejections returns the rejection events of this decision.
func (d Decision) Rejections() []event.Event {
	var rejections []event.Event
	for _, evt := range d.Events {
		if evt.Type.IsRejection() {
			rejections = append(rejections, evt)
		}
	}
	return rejections
}
