package projection

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
)

// ReservationTTL is how long an issued reservation holds a seat. Expiry is a
// read-time predicate: expired reservations stay in the log but stop counting
// against quotas the moment the read model is built after their deadline.
const ReservationTTL = 30 * time.Minute

// Participant is the derived registration state for one member.
type Participant struct {
	MemberID     string
	SessionID    string
	RoomType     event.RoomType
	Duration     int
	RegisteredAt time.Time
}

// Reservation is a session-scoped hold on one unit of a room type.
type Reservation struct {
	SessionID string
	RoomType  event.RoomType
	Duration  int
	IssuedAt  time.Time
}

// WaitinglistEntry is the derived waitinglist state for one member.
type WaitinglistEntry struct {
	MemberID         string
	SessionID        string
	DesiredRoomTypes []event.RoomType
	Duration         int
	RegisteredAt     time.Time
}

// WaitinglistReservation is a session-scoped hold on a waitinglist spot.
type WaitinglistReservation struct {
	SessionID        string
	DesiredRoomTypes []event.RoomType
	Duration         int
	IssuedAt         time.Time
}

// Registration is the registration read model: participants, waitinglist,
// outstanding reservations, and per-room-type occupancy.
type Registration struct {
	now    time.Time
	config Config

	participants            map[string]Participant
	waitinglist             map[string]WaitinglistEntry
	reservations            map[string]Reservation
	waitinglistReservations map[string]WaitinglistReservation
}

// NewRegistration folds the registration log into current registration state.
// The supplied clock instant decides reservation validity for the lifetime of
// this read model, keeping every check within one command deterministic.
func NewRegistration(j *journal.Journal, config Config, now time.Time) Registration {
	model := Registration{
		now:                     now.UTC(),
		config:                  config,
		participants:            make(map[string]Participant),
		waitinglist:             make(map[string]WaitinglistEntry),
		reservations:            make(map[string]Reservation),
		waitinglistReservations: make(map[string]WaitinglistReservation),
	}
	if j == nil {
		return model
	}
	for _, evt := range j.RegistrationEvents {
		model.apply(evt)
	}
	return model
}

// apply folds one event into the model. Rejection events change nothing; they
// exist for the audit trail only.
func (r *Registration) apply(evt event.Event) {
	switch evt.Type {
	case event.TypeReservationIssued:
		var payload event.ReservationPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		r.reservations[payload.SessionID] = Reservation{
			SessionID: payload.SessionID,
			RoomType:  payload.RoomType,
			Duration:  payload.Duration,
			IssuedAt:  evt.Timestamp,
		}
	case event.TypeWaitinglistReservationIssued:
		var payload event.WaitinglistReservationPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		r.waitinglistReservations[payload.SessionID] = WaitinglistReservation{
			SessionID:        payload.SessionID,
			DesiredRoomTypes: payload.DesiredRoomTypes,
			Duration:         payload.Duration,
			IssuedAt:         evt.Timestamp,
		}
	case event.TypeParticipantRegistered:
		var payload event.ParticipantPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		r.participants[payload.MemberID] = Participant{
			MemberID:     payload.MemberID,
			SessionID:    payload.SessionID,
			RoomType:     payload.RoomType,
			Duration:     payload.Duration,
			RegisteredAt: evt.Timestamp,
		}
		// Registration consumes the session's reservation.
		delete(r.reservations, payload.SessionID)
	case event.TypeWaitinglistParticipantRegistered:
		var payload event.WaitinglistParticipantPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		r.waitinglist[payload.MemberID] = WaitinglistEntry{
			MemberID:         payload.MemberID,
			SessionID:        payload.SessionID,
			DesiredRoomTypes: payload.DesiredRoomTypes,
			Duration:         payload.Duration,
			RegisteredAt:     evt.Timestamp,
		}
		delete(r.waitinglistReservations, payload.SessionID)
	case event.TypeRoomTypeChanged:
		var payload event.RoomTypeChangedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if participant, ok := r.participants[payload.MemberID]; ok {
			participant.RoomType = payload.RoomType
			r.participants[payload.MemberID] = participant
		}
	case event.TypeDurationChanged:
		var payload event.DurationChangedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if participant, ok := r.participants[payload.MemberID]; ok {
			participant.Duration = payload.Duration
			r.participants[payload.MemberID] = participant
		}
	case event.TypeDesiredRoomTypesChanged:
		var payload event.DesiredRoomTypesChangedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if entry, ok := r.waitinglist[payload.MemberID]; ok {
			entry.DesiredRoomTypes = payload.DesiredRoomTypes
			r.waitinglist[payload.MemberID] = entry
		}
	case event.TypeParticipantRemoved:
		var payload event.MemberPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		delete(r.participants, payload.MemberID)
	case event.TypeWaitinglistParticipantRemoved:
		var payload event.MemberPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		delete(r.waitinglist, payload.MemberID)
	}
}

// ParticipantFor returns the derived registration state for a member.
func (r Registration) ParticipantFor(memberID string) (Participant, bool) {
	participant, ok := r.participants[memberID]
	return participant, ok
}

// Participants returns all registered participants ordered by registration time.
func (r Registration) Participants() []Participant {
	participants := make([]Participant, 0, len(r.participants))
	for _, participant := range r.participants {
		participants = append(participants, participant)
	}
	sort.Slice(participants, func(i, k int) bool {
		if participants[i].RegisteredAt.Equal(participants[k].RegisteredAt) {
			return participants[i].MemberID < participants[k].MemberID
		}
		return participants[i].RegisteredAt.Before(participants[k].RegisteredAt)
	})
	return participants
}

// WaitinglistEntryFor returns the waitinglist state for a member.
func (r Registration) WaitinglistEntryFor(memberID string) (WaitinglistEntry, bool) {
	entry, ok := r.waitinglist[memberID]
	return entry, ok
}

// WaitinglistParticipants returns all waitinglist entries ordered by entry time.
func (r Registration) WaitinglistParticipants() []WaitinglistEntry {
	entries := make([]WaitinglistEntry, 0, len(r.waitinglist))
	for _, entry := range r.waitinglist {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, k int) bool {
		if entries[i].RegisteredAt.Equal(entries[k].RegisteredAt) {
			return entries[i].MemberID < entries[k].MemberID
		}
		return entries[i].RegisteredAt.Before(entries[k].RegisteredAt)
	})
	return entries
}

// ReservationFor returns the latest reservation for a session, expired or not.
func (r Registration) ReservationFor(sessionID string) (Reservation, bool) {
	reservation, ok := r.reservations[sessionID]
	return reservation, ok
}

// WaitinglistReservationFor returns the latest waitinglist reservation for a session.
func (r Registration) WaitinglistReservationFor(sessionID string) (WaitinglistReservation, bool) {
	reservation, ok := r.waitinglistReservations[sessionID]
	return reservation, ok
}

// IsAlreadyRegistered reports whether the member holds a registration.
func (r Registration) IsAlreadyRegistered(memberID string) bool {
	_, ok := r.participants[memberID]
	return ok
}

// IsAlreadyOnWaitinglist reports whether the member holds a waitinglist entry.
func (r Registration) IsAlreadyOnWaitinglist(memberID string) bool {
	_, ok := r.waitinglist[memberID]
	return ok
}

// RoomTypeOf returns the room type the member is registered in.
func (r Registration) RoomTypeOf(memberID string) (event.RoomType, bool) {
	participant, ok := r.participants[memberID]
	if !ok {
		return "", false
	}
	return participant.RoomType, true
}

// HasValidReservationFor reports whether the session holds an unexpired reservation.
func (r Registration) HasValidReservationFor(sessionID string) bool {
	reservation, ok := r.reservations[sessionID]
	return ok && r.now.Before(reservation.IssuedAt.Add(ReservationTTL))
}

// HasValidWaitinglistReservationFor reports whether the session holds an
// unexpired waitinglist reservation.
func (r Registration) HasValidWaitinglistReservationFor(sessionID string) bool {
	reservation, ok := r.waitinglistReservations[sessionID]
	return ok && r.now.Before(reservation.IssuedAt.Add(ReservationTTL))
}

// RegisteredCount returns the number of participants registered in a room type.
func (r Registration) RegisteredCount(roomType event.RoomType) int {
	count := 0
	for _, participant := range r.participants {
		if participant.RoomType == roomType {
			count++
		}
	}
	return count
}

// ReservedCount returns the number of valid, unexpired reservations for a room type.
func (r Registration) ReservedCount(roomType event.RoomType) int {
	count := 0
	for _, reservation := range r.reservations {
		if reservation.RoomType == roomType && r.now.Before(reservation.IssuedAt.Add(ReservationTTL)) {
			count++
		}
	}
	return count
}

// IsFull reports whether registrations plus valid reservations have reached
// the room type's quota.
func (r Registration) IsFull(roomType event.RoomType) bool {
	return r.isFull(roomType, "")
}

// IsFullExcludingSession is IsFull with the given session's own reservation
// left out of the count, for the moment a reservation is being converted into
// a registration.
func (r Registration) IsFullExcludingSession(roomType event.RoomType, sessionID string) bool {
	return r.isFull(roomType, sessionID)
}

func (r Registration) isFull(roomType event.RoomType, excludedSessionID string) bool {
	occupied := r.RegisteredCount(roomType)
	for _, reservation := range r.reservations {
		if reservation.SessionID == excludedSessionID {
			continue
		}
		if reservation.RoomType == roomType && r.now.Before(reservation.IssuedAt.Add(ReservationTTL)) {
			occupied++
		}
	}
	return occupied >= r.config.QuotaFor(roomType)
}
