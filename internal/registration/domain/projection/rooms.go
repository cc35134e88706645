package projection

import (
	"encoding/json"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
)

// Pair is two registered participants sharing one room of a given type.
type Pair struct {
	RoomType       event.RoomType
	Participant1ID string
	Participant2ID string
}

// Contains reports whether the pair includes the given participant.
func (p Pair) Contains(participantID string) bool {
	return p.Participant1ID == participantID || p.Participant2ID == participantID
}

// Rooms is the room-pairing read model.
type Rooms struct {
	pairs []Pair
}

// NewRooms folds the room log into the current set of pairs. Pair order
// follows log order of the surviving pair_added events.
func NewRooms(j *journal.Journal) Rooms {
	var model Rooms
	if j == nil {
		return model
	}
	for _, evt := range j.RoomEvents {
		switch evt.Type {
		case event.TypePairAdded:
			var payload event.PairPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			model.pairs = append(model.pairs, Pair{
				RoomType:       payload.RoomType,
				Participant1ID: payload.Participant1ID,
				Participant2ID: payload.Participant2ID,
			})
		case event.TypePairRemoved:
			var payload event.PairPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			model.removePair(payload.RoomType, payload.Participant1ID, payload.Participant2ID)
		case event.TypePairDissolved:
			var payload event.PairParticipantPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			model.removeContaining(payload.RoomType, payload.ParticipantID)
		}
	}
	return model
}

// removePair drops the first pair matching both participants in either order.
func (m *Rooms) removePair(roomType event.RoomType, participant1ID, participant2ID string) {
	for i, pair := range m.pairs {
		if pair.RoomType != roomType {
			continue
		}
		if pair.Contains(participant1ID) && pair.Contains(participant2ID) {
			m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
			return
		}
	}
}

// removeContaining drops the first pair of the room type containing the participant.
func (m *Rooms) removeContaining(roomType event.RoomType, participantID string) {
	for i, pair := range m.pairs {
		if pair.RoomType == roomType && pair.Contains(participantID) {
			m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
			return
		}
	}
}

// Pairs returns all current pairs across room types.
func (m Rooms) Pairs() []Pair {
	pairs := make([]Pair, len(m.pairs))
	copy(pairs, m.pairs)
	return pairs
}

// PairsFor returns the current pairs in one room type.
func (m Rooms) PairsFor(roomType event.RoomType) []Pair {
	var pairs []Pair
	for _, pair := range m.pairs {
		if pair.RoomType == roomType {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// PairContaining returns the pair of the room type that includes the participant.
func (m Rooms) PairContaining(roomType event.RoomType, participantID string) (Pair, bool) {
	for _, pair := range m.pairs {
		if pair.RoomType == roomType && pair.Contains(participantID) {
			return pair, true
		}
	}
	return Pair{}, false
}

// PairsContaining returns every pair, in any room type, that includes the
// participant. Used when a withdrawal has to dissolve the member's pairings.
func (m Rooms) PairsContaining(participantID string) []Pair {
	var pairs []Pair
	for _, pair := range m.pairs {
		if pair.Contains(participantID) {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// IsPaired reports whether the participant is in any pair of the room type.
func (m Rooms) IsPaired(roomType event.RoomType, participantID string) bool {
	_, ok := m.PairContaining(roomType, participantID)
	return ok
}
