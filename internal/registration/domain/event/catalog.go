package event

import (
	"encoding/json"
	"time"
)

// The catalog functions below are pure factories: they stamp the supplied
// wall-clock instant and marshal a typed payload. They never validate and
// never reject; deciding whether an event may be appended is the command
// processors' job.

func newEvent(eventType Type, now time.Time, payload any) Event {
	payloadJSON, _ := json.Marshal(payload)
	return Event{
		Type:        eventType,
		Timestamp:   now.UTC().Truncate(time.Millisecond),
		PayloadJSON: payloadJSON,
	}
}

// URLSet records the conference URL.
func URLSet(now time.Time, url string) Event {
	return newEvent(TypeURLSet, now, URLSetPayload{URL: url})
}

// StartTimeSet records the conference start time.
func StartTimeSet(now time.Time, start time.Time) Event {
	return newEvent(TypeStartTimeSet, now, TimeSetPayload{TimeInMillis: start.UTC().UnixMilli()})
}

// EndTimeSet records the conference end time.
func EndTimeSet(now time.Time, end time.Time) Event {
	return newEvent(TypeEndTimeSet, now, TimeSetPayload{TimeInMillis: end.UTC().UnixMilli()})
}

// RoomQuotaSet records the capacity quota for a room type.
func RoomQuotaSet(now time.Time, roomType RoomType, quota int) Event {
	return newEvent(TypeRoomQuotaSet, now, RoomQuotaSetPayload{RoomType: roomType, Quota: quota})
}

// ReservationIssued records a session-scoped hold on one unit of a room type.
func ReservationIssued(now time.Time, sessionID string, roomType RoomType, duration int) Event {
	return newEvent(TypeReservationIssued, now, ReservationPayload{SessionID: sessionID, RoomType: roomType, Duration: duration})
}

// ReservationNotIssuedSessionHeld records a declined reservation because the
// session already holds a valid one.
func ReservationNotIssuedSessionHeld(now time.Time, sessionID string, roomType RoomType, duration int) Event {
	return newEvent(TypeReservationNotIssuedSessionHeld, now, ReservationPayload{SessionID: sessionID, RoomType: roomType, Duration: duration})
}

// ReservationNotIssuedRoomFull records a declined reservation because the room
// type is at capacity.
func ReservationNotIssuedRoomFull(now time.Time, sessionID string, roomType RoomType, duration int) Event {
	return newEvent(TypeReservationNotIssuedRoomFull, now, ReservationPayload{SessionID: sessionID, RoomType: roomType, Duration: duration})
}

// WaitinglistReservationIssued records a waitinglist hold for a session.
func WaitinglistReservationIssued(now time.Time, sessionID string, desiredRoomTypes []RoomType, duration int) Event {
	return newEvent(TypeWaitinglistReservationIssued, now, WaitinglistReservationPayload{SessionID: sessionID, DesiredRoomTypes: desiredRoomTypes, Duration: duration})
}

// WaitinglistReservationNotIssuedSessionHeld records a declined waitinglist
// hold because the session already holds one.
func WaitinglistReservationNotIssuedSessionHeld(now time.Time, sessionID string, desiredRoomTypes []RoomType, duration int) Event {
	return newEvent(TypeWaitinglistReservationNotIssuedSessionHeld, now, WaitinglistReservationPayload{SessionID: sessionID, DesiredRoomTypes: desiredRoomTypes, Duration: duration})
}

// ParticipantRegistered records a completed registration for a member.
func ParticipantRegistered(now time.Time, sessionID, memberID string, roomType RoomType, duration int) Event {
	return newEvent(TypeParticipantRegistered, now, ParticipantPayload{SessionID: sessionID, MemberID: memberID, RoomType: roomType, Duration: duration})
}

// ParticipantNotRegisteredRoomFull records a declined registration because the
// room type is at capacity.
func ParticipantNotRegisteredRoomFull(now time.Time, memberID string, roomType RoomType, duration int) Event {
	return newEvent(TypeParticipantNotRegisteredRoomFull, now, ParticipantPayload{MemberID: memberID, RoomType: roomType, Duration: duration})
}

// ParticipantNotRegisteredASecondTime records a declined duplicate registration.
func ParticipantNotRegisteredASecondTime(now time.Time, memberID string, roomType RoomType, duration int) Event {
	return newEvent(TypeParticipantNotRegisteredASecondTime, now, ParticipantPayload{MemberID: memberID, RoomType: roomType, Duration: duration})
}

// WaitinglistParticipantRegistered records a completed waitinglist entry.
func WaitinglistParticipantRegistered(now time.Time, sessionID, memberID string, desiredRoomTypes []RoomType, duration int) Event {
	return newEvent(TypeWaitinglistParticipantRegistered, now, WaitinglistParticipantPayload{SessionID: sessionID, MemberID: memberID, DesiredRoomTypes: desiredRoomTypes, Duration: duration})
}

// WaitinglistParticipantNotRegisteredASecondTime records a declined duplicate
// waitinglist entry.
func WaitinglistParticipantNotRegisteredASecondTime(now time.Time, memberID string, desiredRoomTypes []RoomType, duration int) Event {
	return newEvent(TypeWaitinglistParticipantNotRegisteredASecondTime, now, WaitinglistParticipantPayload{MemberID: memberID, DesiredRoomTypes: desiredRoomTypes, Duration: duration})
}

// RoomTypeChanged records a registered participant switching room type.
func RoomTypeChanged(now time.Time, memberID string, roomType RoomType) Event {
	return newEvent(TypeRoomTypeChanged, now, RoomTypeChangedPayload{MemberID: memberID, RoomType: roomType})
}

// RoomTypeNotChanged records a declined room type change.
func RoomTypeNotChanged(now time.Time, memberID string) Event {
	return newEvent(TypeRoomTypeNotChanged, now, MemberPayload{MemberID: memberID})
}

// DurationChanged records a registered participant changing their stay.
func DurationChanged(now time.Time, memberID string, duration int) Event {
	return newEvent(TypeDurationChanged, now, DurationChangedPayload{MemberID: memberID, Duration: duration})
}

// DurationNotChanged records a declined duration change.
func DurationNotChanged(now time.Time, memberID string) Event {
	return newEvent(TypeDurationNotChanged, now, MemberPayload{MemberID: memberID})
}

// DesiredRoomTypesChanged records a waitinglist member changing the room types
// they are waiting for.
func DesiredRoomTypesChanged(now time.Time, memberID string, desiredRoomTypes []RoomType) Event {
	return newEvent(TypeDesiredRoomTypesChanged, now, DesiredRoomTypesChangedPayload{MemberID: memberID, DesiredRoomTypes: desiredRoomTypes})
}

// DesiredRoomTypesNotChanged records a declined desired-room-types change.
func DesiredRoomTypesNotChanged(now time.Time, memberID string) Event {
	return newEvent(TypeDesiredRoomTypesNotChanged, now, MemberPayload{MemberID: memberID})
}

// ParticipantRemoved records a registration being withdrawn.
func ParticipantRemoved(now time.Time, memberID string) Event {
	return newEvent(TypeParticipantRemoved, now, MemberPayload{MemberID: memberID})
}

// ParticipantNotRemoved records a declined removal for a non-participant.
func ParticipantNotRemoved(now time.Time, memberID string) Event {
	return newEvent(TypeParticipantNotRemoved, now, MemberPayload{MemberID: memberID})
}

// WaitinglistParticipantRemoved records a waitinglist entry being withdrawn.
func WaitinglistParticipantRemoved(now time.Time, memberID string) Event {
	return newEvent(TypeWaitinglistParticipantRemoved, now, MemberPayload{MemberID: memberID})
}

// WaitinglistParticipantNotRemoved records a declined waitinglist removal.
func WaitinglistParticipantNotRemoved(now time.Time, memberID string) Event {
	return newEvent(TypeWaitinglistParticipantNotRemoved, now, MemberPayload{MemberID: memberID})
}

// PairAdded records two registered participants sharing a room.
func PairAdded(now time.Time, roomType RoomType, participant1ID, participant2ID string) Event {
	return newEvent(TypePairAdded, now, PairPayload{RoomType: roomType, Participant1ID: participant1ID, Participant2ID: participant2ID})
}

// PairNotAdded records a declined pairing for one offending participant.
func PairNotAdded(now time.Time, roomType RoomType, participantID string) Event {
	return newEvent(TypePairNotAdded, now, PairParticipantPayload{RoomType: roomType, ParticipantID: participantID})
}

// PairRemoved records a pairing dissolved on request.
func PairRemoved(now time.Time, roomType RoomType, participant1ID, participant2ID string) Event {
	return newEvent(TypePairRemoved, now, PairPayload{RoomType: roomType, Participant1ID: participant1ID, Participant2ID: participant2ID})
}

// PairNotRemoved records a declined unpairing when no such pair exists.
func PairNotRemoved(now time.Time, roomType RoomType, participantID string) Event {
	return newEvent(TypePairNotRemoved, now, PairParticipantPayload{RoomType: roomType, ParticipantID: participantID})
}

// PairDissolved records a pairing dissolved because a participant withdrew.
func PairDissolved(now time.Time, roomType RoomType, participantID string) Event {
	return newEvent(TypePairDissolved, now, PairParticipantPayload{RoomType: roomType, ParticipantID: participantID})
}
