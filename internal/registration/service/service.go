// Package service exposes the registration engine's application operations:
// each mutating call loads the conference journal, runs a command processor
// against it, and saves with optimistic concurrency, retrying the whole
// command on version conflicts.
package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/command"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage"
)

// Service coordinates command execution and queries for conference
// registration.
type Service struct {
	journals  storage.Journals
	directory storage.MemberDirectory
	now       func() time.Time
	tracer    trace.Tracer
	retry     RetryPolicy
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the wall clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRetryPolicy injects the conflict retry policy. MaxAttempts is clamped
// to at least one so every command gets a save attempt.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(s *Service) {
		if policy.MaxAttempts < 1 {
			policy.MaxAttempts = 1
		}
		s.retry = policy
	}
}

// New creates a registration service over a journal store and a member
// directory.
func New(journals storage.Journals, directory storage.MemberDirectory, opts ...Option) *Service {
	s := &Service{
		journals:  journals,
		directory: directory,
		now:       time.Now,
		tracer:    otel.Tracer("registration/service"),
		retry:     DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutate runs one command against a freshly loaded journal and saves it with
// the version read at load time. On a version conflict everything is
// discarded and the command re-runs against a fresh load, so a retried
// command always validates against the latest committed state. Any other
// error propagates unchanged.
func (s *Service) mutate(ctx context.Context, operation, conferenceURL string, run func(j *journal.Journal) (command.Decision, error)) (command.Decision, error) {
	ctx, span := s.tracer.Start(ctx, operation, trace.WithAttributes(
		attribute.String("conference.url", conferenceURL),
	))
	defer span.End()

	var conflict error
	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return command.Decision{}, ctx.Err()
			case <-time.After(s.retry.backoff(attempt - 1)):
			}
		}

		j, version, err := s.journals.LoadJournal(ctx, conferenceURL)
		if err != nil {
			return command.Decision{}, err
		}
		decision, err := run(j)
		if err != nil {
			return command.Decision{}, err
		}
		j.EnsureID(s.now())

		err = s.journals.SaveJournal(ctx, j, version)
		if err == nil {
			span.SetAttributes(attribute.Int("registration.attempts", attempt))
			return decision, nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return command.Decision{}, err
		}
		conflict = err
	}
	return command.Decision{}, conflict
}

// SetConferenceDetails records one administrator submission of conference
// configuration.
func (s *Service) SetConferenceDetails(ctx context.Context, conferenceURL string, details command.ConferenceDetails) (command.Decision, error) {
	return s.mutate(ctx, "SetConferenceDetails", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewConfigProcessor(j, s.now).SetConferenceDetails(details)
	})
}

// IssueReservation places a session-scoped hold on one unit of a room type.
func (s *Service) IssueReservation(ctx context.Context, conferenceURL string, roomType event.RoomType, duration int, sessionID string) (command.Decision, error) {
	return s.mutate(ctx, "IssueReservation", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRegistrationProcessor(j, s.now).IssueReservation(roomType, duration, sessionID)
	})
}

// IssueWaitinglistReservation places a session-scoped hold on a waitinglist
// spot.
func (s *Service) IssueWaitinglistReservation(ctx context.Context, conferenceURL string, desiredRoomTypes []event.RoomType, duration int, sessionID string) (command.Decision, error) {
	return s.mutate(ctx, "IssueWaitinglistReservation", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRegistrationProcessor(j, s.now).IssueWaitinglistReservation(desiredRoomTypes, duration, sessionID)
	})
}

// RegisterParticipant completes a session's registration for a member.
func (s *Service) RegisterParticipant(ctx context.Context, conferenceURL string, roomType event.RoomType, duration int, sessionID, memberID string) (command.Decision, error) {
	return s.mutate(ctx, "RegisterParticipant", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRegistrationProcessor(j, s.now).RegisterParticipant(roomType, duration, sessionID, memberID)
	})
}

// RegisterWaitinglistParticipant completes a session's waitinglist entry for
// a member.
func (s *Service) RegisterWaitinglistParticipant(ctx context.Context, conferenceURL string, desiredRoomTypes []event.RoomType, duration int, sessionID, memberID string) (command.Decision, error) {
	return s.mutate(ctx, "RegisterWaitinglistParticipant", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRegistrationProcessor(j, s.now).RegisterWaitinglistParticipant(desiredRoomTypes, duration, sessionID, memberID)
	})
}

// ChangeRoomType moves a registered participant to another room type.
func (s *Service) ChangeRoomType(ctx context.Context, conferenceURL, memberID string, roomType event.RoomType) (command.Decision, error) {
	return s.mutate(ctx, "ChangeRoomType", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRegistrationProcessor(j, s.now).ChangeRoomType(memberID, roomType)
	})
}

// ChangeDuration changes a registered participant's length of stay.
func (s *Service) ChangeDuration(ctx context.Context, conferenceURL, memberID string, duration int) (command.Decision, error) {
	return s.mutate(ctx, "ChangeDuration", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRegistrationProcessor(j, s.now).ChangeDuration(memberID, duration)
	})
}

// ChangeDesiredRoomTypes changes the room types a waitinglist member waits
// for.
func (s *Service) ChangeDesiredRoomTypes(ctx context.Context, conferenceURL, memberID string, desiredRoomTypes []event.RoomType) (command.Decision, error) {
	return s.mutate(ctx, "ChangeDesiredRoomTypes", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRegistrationProcessor(j, s.now).ChangeDesiredRoomTypes(memberID, desiredRoomTypes)
	})
}

// RemoveParticipant withdraws a registration and dissolves the member's
// room pairs.
func (s *Service) RemoveParticipant(ctx context.Context, conferenceURL, memberID string) (command.Decision, error) {
	return s.mutate(ctx, "RemoveParticipant", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRegistrationProcessor(j, s.now).RemoveParticipant(memberID)
	})
}

// RemoveWaitinglistParticipant withdraws a waitinglist entry.
func (s *Service) RemoveWaitinglistParticipant(ctx context.Context, conferenceURL, memberID string) (command.Decision, error) {
	return s.mutate(ctx, "RemoveWaitinglistParticipant", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRegistrationProcessor(j, s.now).RemoveWaitinglistParticipant(memberID)
	})
}

// AddParticipantPair pairs two registered participants to share a room.
func (s *Service) AddParticipantPair(ctx context.Context, conferenceURL string, roomType event.RoomType, participant1ID, participant2ID string) (command.Decision, error) {
	return s.mutate(ctx, "AddParticipantPair", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRoomPairingProcessor(j, s.now).AddParticipantPair(roomType, participant1ID, participant2ID)
	})
}

// RemoveParticipantPair dissolves an existing room pair on request.
func (s *Service) RemoveParticipantPair(ctx context.Context, conferenceURL string, roomType event.RoomType, participant1ID, participant2ID string) (command.Decision, error) {
	return s.mutate(ctx, "RemoveParticipantPair", conferenceURL, func(j *journal.Journal) (command.Decision, error) {
		return command.NewRoomPairingProcessor(j, s.now).RemoveParticipantPair(roomType, participant1ID, participant2ID)
	})
}
