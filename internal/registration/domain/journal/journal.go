// Package journal holds the persisted per-conference aggregate: three ordered,
// append-only event logs. The journal is the single source of truth for the
// registration engine; all current state is derived from it by replay.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
)

// Journal is the event-sourced aggregate for one conference instance.
//
// Events are appended, never replaced or removed; log order is itself the
// source of truth for projection tie-breaks. A journal is loaded fresh for
// every command execution and owned exclusively by that execution, so no
// locking is needed around it.
type Journal struct {
	// ID is assigned exactly once, the first time persistence needs a key.
	ID string `json:"id,omitempty"`
	// ConferenceURL identifies the conference instance.
	ConferenceURL string `json:"conference_url"`
	// ConfigEvents holds conference-configuration events.
	ConfigEvents []event.Event `json:"config_events"`
	// RegistrationEvents holds reservation and registration events.
	RegistrationEvents []event.Event `json:"registration_events"`
	// RoomEvents holds room-pairing events.
	RoomEvents []event.Event `json:"room_events"`
}

// New returns an empty journal for a conference URL.
func New(conferenceURL string) *Journal {
	return &Journal{ConferenceURL: strings.TrimSpace(conferenceURL)}
}

// AppendConfigEvents appends a batch of configuration events.
func (j *Journal) AppendConfigEvents(events ...event.Event) {
	j.ConfigEvents = append(j.ConfigEvents, events...)
}

// AppendRegistrationEvents appends a batch of registration events.
func (j *Journal) AppendRegistrationEvents(events ...event.Event) {
	j.RegistrationEvents = append(j.RegistrationEvents, events...)
}

// AppendRoomEvents appends a batch of room-pairing events.
func (j *Journal) AppendRoomEvents(events ...event.Event) {
	j.RoomEvents = append(j.RoomEvents, events...)
}

// EnsureID assigns the journal id once, derived from the creation instant and
// the conference URL. Calling it again is a no-op.
func (j *Journal) EnsureID(now time.Time) {
	if j.ID != "" {
		return
	}
	j.ID = fmt.Sprintf("%s_%d", j.ConferenceURL, now.UTC().UnixMilli())
}
