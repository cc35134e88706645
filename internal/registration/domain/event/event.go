package event

import (
	"encoding/json"
	"strings"
	"time"
)

// Type identifies the type of a registration engine event.
type Type string

// Conference configuration events.
const (
	// TypeURLSet records the conference URL being set.
	TypeURLSet Type = "config.url_set"
	// TypeStartTimeSet records the conference start time being set.
	TypeStartTimeSet Type = "config.start_time_set"
	// TypeEndTimeSet records the conference end time being set.
	TypeEndTimeSet Type = "config.end_time_set"
	// TypeRoomQuotaSet records a capacity quota for one room type.
	TypeRoomQuotaSet Type = "config.room_quota_set"
)

// Registration events.
// Events represent facts that have occurred, including declined commands:
// a rejected registration attempt is recorded, never thrown away.
const (
	// TypeReservationIssued records a session-scoped hold on one room unit.
	TypeReservationIssued Type = "registration.reservation_issued"
	// TypeReservationNotIssuedSessionHeld records a declined reservation for a
	// session that already holds a valid reservation.
	TypeReservationNotIssuedSessionHeld Type = "registration.reservation_not_issued_session_already_reserved"
	// TypeReservationNotIssuedRoomFull records a declined reservation for a
	// room type at capacity.
	TypeReservationNotIssuedRoomFull Type = "registration.reservation_not_issued_room_type_full"
	// TypeWaitinglistReservationIssued records a waitinglist hold.
	TypeWaitinglistReservationIssued Type = "registration.waitinglist_reservation_issued"
	// TypeWaitinglistReservationNotIssuedSessionHeld records a declined
	// waitinglist hold for a session that already holds one.
	TypeWaitinglistReservationNotIssuedSessionHeld Type = "registration.waitinglist_reservation_not_issued_session_already_reserved"
	// TypeParticipantRegistered records a completed registration.
	TypeParticipantRegistered Type = "registration.participant_registered"
	// TypeParticipantNotRegisteredRoomFull records a declined registration for
	// a room type at capacity.
	TypeParticipantNotRegisteredRoomFull Type = "registration.participant_not_registered_room_type_full"
	// TypeParticipantNotRegisteredASecondTime records a declined duplicate
	// registration for a member.
	TypeParticipantNotRegisteredASecondTime Type = "registration.participant_not_registered_a_second_time"
	// TypeWaitinglistParticipantRegistered records a completed waitinglist entry.
	TypeWaitinglistParticipantRegistered Type = "registration.waitinglist_participant_registered"
	// TypeWaitinglistParticipantNotRegisteredASecondTime records a declined
	// duplicate waitinglist entry.
	TypeWaitinglistParticipantNotRegisteredASecondTime Type = "registration.waitinglist_participant_not_registered_a_second_time"
	// TypeRoomTypeChanged records a registered participant switching room type.
	TypeRoomTypeChanged Type = "registration.room_type_changed"
	// TypeRoomTypeNotChanged records a declined room type change for a member
	// who is not registered.
	TypeRoomTypeNotChanged Type = "registration.room_type_not_changed_for_non_participant"
	// TypeDurationChanged records a registered participant changing their stay.
	TypeDurationChanged Type = "registration.duration_changed"
	// TypeDurationNotChanged records a declined duration change for a member
	// who is not registered.
	TypeDurationNotChanged Type = "registration.duration_not_changed_for_non_participant"
	// TypeDesiredRoomTypesChanged records a waitinglist member changing the
	// room types they are waiting for.
	TypeDesiredRoomTypesChanged Type = "registration.desired_room_types_changed"
	// TypeDesiredRoomTypesNotChanged records a declined desired-room-types
	// change for a member who is not on the waitinglist.
	TypeDesiredRoomTypesNotChanged Type = "registration.desired_room_types_not_changed_for_non_waitinglist_member"
	// TypeParticipantRemoved records a registration being withdrawn.
	TypeParticipantRemoved Type = "registration.participant_removed"
	// TypeParticipantNotRemoved records a declined removal for a member who is
	// not registered.
	TypeParticipantNotRemoved Type = "registration.participant_not_removed_for_non_participant"
	// TypeWaitinglistParticipantRemoved records a waitinglist entry being withdrawn.
	TypeWaitinglistParticipantRemoved Type = "registration.waitinglist_participant_removed"
	// TypeWaitinglistParticipantNotRemoved records a declined waitinglist
	// removal for a member without an entry.
	TypeWaitinglistParticipantNotRemoved Type = "registration.waitinglist_participant_not_removed_for_non_member"
)

// Room pairing events.
const (
	// TypePairAdded records two registered participants sharing a room.
	TypePairAdded Type = "rooms.pair_added"
	// TypePairNotAdded records a declined pairing for one offending participant.
	TypePairNotAdded Type = "rooms.pair_not_added"
	// TypePairRemoved records a pairing being dissolved on request.
	TypePairRemoved Type = "rooms.pair_removed"
	// TypePairNotRemoved records a declined unpairing when no such pair exists.
	TypePairNotRemoved Type = "rooms.pair_not_removed"
	// TypePairDissolved records a pairing dissolved because one of its
	// participants withdrew their registration.
	TypePairDissolved Type = "rooms.pair_containing_removed_participant_dissolved"
)

// RoomType identifies a bookable room category with its own capacity quota.
type RoomType string

const (
	// RoomTypeSingle is a single room.
	RoomTypeSingle RoomType = "single"
	// RoomTypeBedInDouble is one bed in a shared double room.
	RoomTypeBedInDouble RoomType = "bed_in_double"
	// RoomTypeJuniorShared is one bed in a shared junior suite.
	RoomTypeJuniorShared RoomType = "junior_shared"
	// RoomTypeJuniorExclusive is a junior suite booked exclusively.
	RoomTypeJuniorExclusive RoomType = "junior_exclusive"
)

// KnownRoomTypes returns all bookable room types in display order.
func KnownRoomTypes() []RoomType {
	return []RoomType{RoomTypeSingle, RoomTypeBedInDouble, RoomTypeJuniorShared, RoomTypeJuniorExclusive}
}

// NormalizeRoomType maps a label to a known room type.
func NormalizeRoomType(value string) (RoomType, bool) {
	trimmed := RoomType(strings.TrimSpace(strings.ToLower(value)))
	for _, roomType := range KnownRoomTypes() {
		if trimmed == roomType {
			return roomType, true
		}
	}
	return "", false
}

// Event represents an immutable event in a conference journal log.
type Event struct {
	// Type identifies the kind of event.
	Type Type `json:"type"`
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON json.RawMessage `json:"payload,omitempty"`
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g. "config", "rooms").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}

// IsRejection reports whether the event records a declined command.
func (t Type) IsRejection() bool {
	switch t {
	case TypeReservationNotIssuedSessionHeld,
		TypeReservationNotIssuedRoomFull,
		TypeWaitinglistReservationNotIssuedSessionHeld,
		TypeParticipantNotRegisteredRoomFull,
		TypeParticipantNotRegisteredASecondTime,
		TypeWaitinglistParticipantNotRegisteredASecondTime,
		TypeRoomTypeNotChanged,
		TypeDurationNotChanged,
		TypeDesiredRoomTypesNotChanged,
		TypeParticipantNotRemoved,
		TypeWaitinglistParticipantNotRemoved,
		TypePairNotAdded,
		TypePairNotRemoved:
		return true
	}
	return false
}
