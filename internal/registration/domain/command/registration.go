package command

import (
	"strings"
	"time"

	apperrors "github.com/softwerkskammer/socrates-registration/internal/platform/errors"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
)

// RegistrationProcessor translates registration intents into registration
// events. Every decision, accepted or declined, is appended to the journal.
type RegistrationProcessor struct {
	journal *journal.Journal
	now     func() time.Time
}

// NewRegistrationProcessor returns a processor bound to a journal and clock.
func NewRegistrationProcessor(j *journal.Journal, now func() time.Time) RegistrationProcessor {
	return RegistrationProcessor{journal: j, now: now}
}

func requireSessionID(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", apperrors.New(apperrors.CodeRegistrationEmptySessionID, "session id must not be empty")
	}
	return sessionID, nil
}

func requireMemberID(memberID string) (string, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return "", apperrors.New(apperrors.CodeRegistrationEmptyMemberID, "member id must not be empty")
	}
	return memberID, nil
}

func requireRoomType(roomType event.RoomType) (event.RoomType, error) {
	normalized, ok := event.NormalizeRoomType(string(roomType))
	if !ok {
		return "", apperrors.WithMetadata(apperrors.CodeRegistrationUnknownRoom,
			"unknown room type", map[string]string{"room_type": string(roomType)})
	}
	return normalized, nil
}

func requireRoomTypes(roomTypes []event.RoomType) ([]event.RoomType, error) {
	normalized := make([]event.RoomType, 0, len(roomTypes))
	for _, roomType := range roomTypes {
		valid, err := requireRoomType(roomType)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, valid)
	}
	return normalized, nil
}

// IssueReservation places a session-scoped hold on one unit of a room type.
// A session already holding a valid reservation, or a full room type,
// yields a rejection event instead.
func (p RegistrationProcessor) IssueReservation(roomType event.RoomType, duration int, sessionID string) (Decision, error) {
	sessionID, err := requireSessionID(sessionID)
	if err != nil {
		return Decision{}, err
	}
	roomType, err = requireRoomType(roomType)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRegistrationWriteModel(p.journal, now)

	var evt event.Event
	switch {
	case model.Registration.HasValidReservationFor(sessionID):
		evt = event.ReservationNotIssuedSessionHeld(now, sessionID, roomType, duration)
	case model.Registration.IsFull(roomType):
		evt = event.ReservationNotIssuedRoomFull(now, sessionID, roomType, duration)
	default:
		evt = event.ReservationIssued(now, sessionID, roomType, duration)
	}
	model.Append(evt)
	return Accept(evt), nil
}

// IssueWaitinglistReservation places a session-scoped hold on a waitinglist
// spot. A session already holding a valid reservation on either list yields
// a rejection event.
func (p RegistrationProcessor) IssueWaitinglistReservation(desiredRoomTypes []event.RoomType, duration int, sessionID string) (Decision, error) {
	sessionID, err := requireSessionID(sessionID)
	if err != nil {
		return Decision{}, err
	}
	desiredRoomTypes, err = requireRoomTypes(desiredRoomTypes)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRegistrationWriteModel(p.journal, now)

	var evt event.Event
	if model.Registration.HasValidWaitinglistReservationFor(sessionID) || model.Registration.HasValidReservationFor(sessionID) {
		evt = event.WaitinglistReservationNotIssuedSessionHeld(now, sessionID, desiredRoomTypes, duration)
	} else {
		evt = event.WaitinglistReservationIssued(now, sessionID, desiredRoomTypes, duration)
	}
	model.Append(evt)
	return Accept(evt), nil
}

// RegisterParticipant turns a session's intent into a registration. The
// session's own reservation does not count against the quota; a member who
// is already registered, or a full room type, yields a rejection event.
func (p RegistrationProcessor) RegisterParticipant(roomType event.RoomType, duration int, sessionID, memberID string) (Decision, error) {
	sessionID, err := requireSessionID(sessionID)
	if err != nil {
		return Decision{}, err
	}
	memberID, err = requireMemberID(memberID)
	if err != nil {
		return Decision{}, err
	}
	roomType, err = requireRoomType(roomType)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRegistrationWriteModel(p.journal, now)

	var evt event.Event
	switch {
	case model.Registration.IsAlreadyRegistered(memberID):
		evt = event.ParticipantNotRegisteredASecondTime(now, memberID, roomType, duration)
	case model.Registration.IsFullExcludingSession(roomType, sessionID):
		evt = event.ParticipantNotRegisteredRoomFull(now, memberID, roomType, duration)
	default:
		evt = event.ParticipantRegistered(now, sessionID, memberID, roomType, duration)
	}
	model.Append(evt)
	return Accept(evt), nil
}

// RegisterWaitinglistParticipant turns a session's intent into a
// waitinglist entry. A member already on the waitinglist yields a
// rejection event.
func (p RegistrationProcessor) RegisterWaitinglistParticipant(desiredRoomTypes []event.RoomType, duration int, sessionID, memberID string) (Decision, error) {
	sessionID, err := requireSessionID(sessionID)
	if err != nil {
		return Decision{}, err
	}
	memberID, err = requireMemberID(memberID)
	if err != nil {
		return Decision{}, err
	}
	desiredRoomTypes, err = requireRoomTypes(desiredRoomTypes)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRegistrationWriteModel(p.journal, now)

	var evt event.Event
	if model.Registration.IsAlreadyOnWaitinglist(memberID) {
		evt = event.WaitinglistParticipantNotRegisteredASecondTime(now, memberID, desiredRoomTypes, duration)
	} else {
		evt = event.WaitinglistParticipantRegistered(now, sessionID, memberID, desiredRoomTypes, duration)
	}
	model.Append(evt)
	return Accept(evt), nil
}

// ChangeRoomType moves a registered participant to another room type.
func (p RegistrationProcessor) ChangeRoomType(memberID string, roomType event.RoomType) (Decision, error) {
	memberID, err := requireMemberID(memberID)
	if err != nil {
		return Decision{}, err
	}
	roomType, err = requireRoomType(roomType)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRegistrationWriteModel(p.journal, now)

	var evt event.Event
	if model.Registration.IsAlreadyRegistered(memberID) {
		evt = event.RoomTypeChanged(now, memberID, roomType)
	} else {
		evt = event.RoomTypeNotChanged(now, memberID)
	}
	model.Append(evt)
	return Accept(evt), nil
}

// ChangeDuration changes a registered participant's length of stay.
func (p RegistrationProcessor) ChangeDuration(memberID string, duration int) (Decision, error) {
	memberID, err := requireMemberID(memberID)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRegistrationWriteModel(p.journal, now)

	var evt event.Event
	if model.Registration.IsAlreadyRegistered(memberID) {
		evt = event.DurationChanged(now, memberID, duration)
	} else {
		evt = event.DurationNotChanged(now, memberID)
	}
	model.Append(evt)
	return Accept(evt), nil
}

// ChangeDesiredRoomTypes changes the room types a waitinglist member is
// waiting for.
func (p RegistrationProcessor) ChangeDesiredRoomTypes(memberID string, desiredRoomTypes []event.RoomType) (Decision, error) {
	memberID, err := requireMemberID(memberID)
	if err != nil {
		return Decision{}, err
	}
	desiredRoomTypes, err = requireRoomTypes(desiredRoomTypes)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRegistrationWriteModel(p.journal, now)

	var evt event.Event
	if model.Registration.IsAlreadyOnWaitinglist(memberID) {
		evt = event.DesiredRoomTypesChanged(now, memberID, desiredRoomTypes)
	} else {
		evt = event.DesiredRoomTypesNotChanged(now, memberID)
	}
	model.Append(evt)
	return Accept(evt), nil
}

// RemoveParticipant withdraws a registration. Any room pair containing the
// member is dissolved in the same command, appended to the room log.
func (p RegistrationProcessor) RemoveParticipant(memberID string) (Decision, error) {
	memberID, err := requireMemberID(memberID)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRegistrationWriteModel(p.journal, now)

	if !model.Registration.IsAlreadyRegistered(memberID) {
		evt := event.ParticipantNotRemoved(now, memberID)
		model.Append(evt)
		return Accept(evt), nil
	}

	removed := event.ParticipantRemoved(now, memberID)
	model.Append(removed)
	events := []event.Event{removed}

	rooms := NewRoomsWriteModel(p.journal, now)
	for _, pair := range rooms.Rooms.PairsContaining(memberID) {
		dissolved := event.PairDissolved(now, pair.RoomType, memberID)
		rooms.Append(dissolved)
		events = append(events, dissolved)
	}
	return Accept(events...), nil
}

// RemoveWaitinglistParticipant withdraws a waitinglist entry.
func (p RegistrationProcessor) RemoveWaitinglistParticipant(memberID string) (Decision, error) {
	memberID, err := requireMemberID(memberID)
	if err != nil {
		return Decision{}, err
	}

	now := p.now()
	model := NewRegistrationWriteModel(p.journal, now)

	var evt event.Event
	if model.Registration.IsAlreadyOnWaitinglist(memberID) {
		evt = event.WaitinglistParticipantRemoved(now, memberID)
	} else {
		evt = event.WaitinglistParticipantNotRemoved(now, memberID)
	}
	model.Append(evt)
	return Accept(evt), nil
}
