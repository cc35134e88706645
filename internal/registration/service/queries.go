package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/projection"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage"
)

// ConferenceDetails is the projected conference configuration.
type ConferenceDetails struct {
	URL       string
	StartTime time.Time
	EndTime   time.Time
	Quotas    map[event.RoomType]int
}

// ParticipantInfo is a projected participant enriched with directory data.
type ParticipantInfo struct {
	Participant projection.Participant
	Member      storage.Member
	Subscriber  storage.Subscriber
}

// WaitinglistInfo is a projected waitinglist entry enriched with directory
// data.
type WaitinglistInfo struct {
	Entry  projection.WaitinglistEntry
	Member storage.Member
}

// RoomOccupancy is the projected occupancy of one room type.
type RoomOccupancy struct {
	RoomType   event.RoomType
	Quota      int
	Registered int
	Reserved   int
	Free       int
}

// ConferenceDetails returns the projected configuration of a conference.
func (s *Service) ConferenceDetails(ctx context.Context, conferenceURL string) (ConferenceDetails, error) {
	ctx, span := s.tracer.Start(ctx, "ConferenceDetails", trace.WithAttributes(
		attribute.String("conference.url", conferenceURL),
	))
	defer span.End()

	j, _, err := s.journals.LoadJournal(ctx, conferenceURL)
	if err != nil {
		return ConferenceDetails{}, err
	}
	cfg := projection.NewConfig(j)
	return ConferenceDetails{
		URL:       cfg.URL,
		StartTime: cfg.StartTime,
		EndTime:   cfg.EndTime,
		Quotas:    cfg.Quotas(),
	}, nil
}

// Participants returns all registered participants in registration order,
// enriched with member directory data. A participant without a directory
// record keeps zero display data; any other lookup failure aborts the query.
func (s *Service) Participants(ctx context.Context, conferenceURL string) ([]ParticipantInfo, error) {
	ctx, span := s.tracer.Start(ctx, "Participants", trace.WithAttributes(
		attribute.String("conference.url", conferenceURL),
	))
	defer span.End()

	j, _, err := s.journals.LoadJournal(ctx, conferenceURL)
	if err != nil {
		return nil, err
	}
	model := projection.NewRegistration(j, projection.NewConfig(j), s.now())

	var infos []ParticipantInfo
	for _, participant := range model.Participants() {
		info := ParticipantInfo{Participant: participant}
		member, err := s.directory.GetMemberForID(ctx, participant.MemberID)
		if err != nil && !errors.Is(err, storage.ErrMemberNotFound) {
			return nil, err
		}
		info.Member = member
		subscriber, err := s.directory.GetSubscriber(ctx, participant.MemberID)
		if err != nil && !errors.Is(err, storage.ErrMemberNotFound) {
			return nil, err
		}
		info.Subscriber = subscriber
		infos = append(infos, info)
	}
	return infos, nil
}

// Waitinglist returns all waitinglist entries in entry order, enriched with
// member directory data.
func (s *Service) Waitinglist(ctx context.Context, conferenceURL string) ([]WaitinglistInfo, error) {
	ctx, span := s.tracer.Start(ctx, "Waitinglist", trace.WithAttributes(
		attribute.String("conference.url", conferenceURL),
	))
	defer span.End()

	j, _, err := s.journals.LoadJournal(ctx, conferenceURL)
	if err != nil {
		return nil, err
	}
	model := projection.NewRegistration(j, projection.NewConfig(j), s.now())

	var infos []WaitinglistInfo
	for _, entry := range model.WaitinglistParticipants() {
		info := WaitinglistInfo{Entry: entry}
		member, err := s.directory.GetMemberForID(ctx, entry.MemberID)
		if err != nil && !errors.Is(err, storage.ErrMemberNotFound) {
			return nil, err
		}
		info.Member = member
		infos = append(infos, info)
	}
	return infos, nil
}

// Occupancy returns occupancy per known room type: quota, registrations,
// valid reservations, and remaining free units.
func (s *Service) Occupancy(ctx context.Context, conferenceURL string) ([]RoomOccupancy, error) {
	ctx, span := s.tracer.Start(ctx, "Occupancy", trace.WithAttributes(
		attribute.String("conference.url", conferenceURL),
	))
	defer span.End()

	j, _, err := s.journals.LoadJournal(ctx, conferenceURL)
	if err != nil {
		return nil, err
	}
	cfg := projection.NewConfig(j)
	model := projection.NewRegistration(j, cfg, s.now())

	occupancies := make([]RoomOccupancy, 0, len(event.KnownRoomTypes()))
	for _, roomType := range event.KnownRoomTypes() {
		quota := cfg.QuotaFor(roomType)
		registered := model.RegisteredCount(roomType)
		reserved := model.ReservedCount(roomType)
		free := quota - registered - reserved
		if free < 0 {
			free = 0
		}
		occupancies = append(occupancies, RoomOccupancy{
			RoomType:   roomType,
			Quota:      quota,
			Registered: registered,
			Reserved:   reserved,
			Free:       free,
		})
	}
	return occupancies, nil
}

// RoomPairs returns the current pairs in one room type.
func (s *Service) RoomPairs(ctx context.Context, conferenceURL string, roomType event.RoomType) ([]projection.Pair, error) {
	ctx, span := s.tracer.Start(ctx, "RoomPairs", trace.WithAttributes(
		attribute.String("conference.url", conferenceURL),
		attribute.String("room.type", string(roomType)),
	))
	defer span.End()

	j, _, err := s.journals.LoadJournal(ctx, conferenceURL)
	if err != nil {
		return nil, err
	}
	return projection.NewRooms(j).PairsFor(roomType), nil
}
