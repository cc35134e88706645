package command

import (
	"time"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/projection"
)

// Write models pair a read model, built fresh from the journal at command
// time, with append access to the matching log. Because the read model is
// rebuilt for every command, a command always validates against the latest
// state including events appended earlier in the same execution. The
// configuration log has no write model: its processor only validates input
// and appends to the journal directly.

// RegistrationWriteModel validates against the registration read model and
// appends to the registration log.
type RegistrationWriteModel struct {
	Registration projection.Registration

	journal *journal.Journal
}

// NewRegistrationWriteModel builds the registration write model for a
// journal at the given instant.
func NewRegistrationWriteModel(j *journal.Journal, now time.Time) RegistrationWriteModel {
	config := projection.NewConfig(j)
	return RegistrationWriteModel{Registration: projection.NewRegistration(j, config, now), journal: j}
}

// Append appends a batch of registration events.
func (m RegistrationWriteModel) Append(events ...event.Event) {
	m.journal.AppendRegistrationEvents(events...)
}

// RoomsWriteModel validates against the pairing and registration read models
// and appends to the room log.
type RoomsWriteModel struct {
	Rooms        projection.Rooms
	Registration projection.Registration

	journal *journal.Journal
}

// NewRoomsWriteModel builds the room-pairing write model for a journal at
// the given instant.
func NewRoomsWriteModel(j *journal.Journal, now time.Time) RoomsWriteModel {
	config := projection.NewConfig(j)
	return RoomsWriteModel{
		Rooms:        projection.NewRooms(j),
		Registration: projection.NewRegistration(j, config, now),
		journal:      j,
	}
}

// Append appends a batch of room-pairing events.
func (m RoomsWriteModel) Append(events ...event.Event) {
	m.journal.AppendRoomEvents(events...)
}
