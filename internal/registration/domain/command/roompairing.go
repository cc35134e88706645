package command

import (
	"time"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
)

// RoomPairingProcessor translates room-sharing intents into pairing events.
type RoomPairingProcessor struct {
	journal *journal.Journal
	now     func() time.Time
}

// NewRoomPairingProcessor returns a processor bound to a journal and clock.
func NewRoomPairingProcessor(j *journal.Journal, now func() time.Time) RoomPairingProcessor {
	return RoomPairingProcessor{journal: j, now: now}
}

// AddParticipantPair pairs two participants to share a room of the given
// type. A rejection event is recorded per offending participant: pairing
// with oneself, or not being registered in the room type. The pair-added
// event is appended only when no rejection was produced; all events of one
// command append in a single batch.
func (p RoomPairingProcessor) AddParticipantPair(roomType event.RoomType, participant1ID, participant2ID string) (Decision, error) {
	participant1ID, err := requireMemberID(participant1ID)
	if err != nil {
		return Decision{}, err
	}
	participant2ID, err = requireMemberID(participant2ID)
	if err != nil {
		return Decision{}, err
	}
	roomType, err = requireRoomType(roomType)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRoomsWriteModel(p.journal, now)

	var events []event.Event
	if participant1ID == participant2ID {
		events = append(events, event.PairNotAdded(now, roomType, participant1ID))
	} else {
		for _, participantID := range []string{participant1ID, participant2ID} {
			registeredIn, ok := model.Registration.RoomTypeOf(participantID)
			if !ok || registeredIn != roomType {
				events = append(events, event.PairNotAdded(now, roomType, participantID))
			}
		}
	}
	if len(events) == 0 {
		events = append(events, event.PairAdded(now, roomType, participant1ID, participant2ID))
	}
	model.Append(events...)
	return Accept(events...), nil
}

// RemoveParticipantPair dissolves an existing pair on request. A rejection
// event is recorded per participant not currently paired with the other in
// the given room type.
func (p RoomPairingProcessor) RemoveParticipantPair(roomType event.RoomType, participant1ID, participant2ID string) (Decision, error) {
	participant1ID, err := requireMemberID(participant1ID)
	if err != nil {
		return Decision{}, err
	}
	participant2ID, err = requireMemberID(participant2ID)
	if err != nil {
		return Decision{}, err
	}
	roomType, err = requireRoomType(roomType)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRoomsWriteModel(p.journal, now)

	var events []event.Event
	if participant1ID == participant2ID {
		events = append(events, event.PairNotRemoved(now, roomType, participant1ID))
	} else {
		for _, pairing := range [][2]string{{participant1ID, participant2ID}, {participant2ID, participant1ID}} {
			pair, ok := model.Rooms.PairContaining(roomType, pairing[0])
			if !ok || !pair.Contains(pairing[1]) {
				events = append(events, event.PairNotRemoved(now, roomType, pairing[0]))
			}
		}
	}
	if len(events) == 0 {
		events = append(events, event.PairRemoved(now, roomType, participant1ID, participant2ID))
	}
	model.Append(events...)
	return Accept(events...), nil
}
