package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "github.com/softwerkskammer/socrates-registration/internal/platform/errors"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/command"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage/memory"
)

const testConference = "socrates-2026"

var testNow = time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)

var testRetry = RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func newTestService(t *testing.T, journals storage.Journals) *Service {
	t.Helper()
	return New(journals, memory.NewDirectory(),
		WithClock(func() time.Time { return testNow }),
		WithRetryPolicy(testRetry),
	)
}

func configureQuota(t *testing.T, svc *Service, roomType event.RoomType, quota int) {
	t.Helper()
	_, err := svc.SetConferenceDetails(context.Background(), testConference, command.ConferenceDetails{
		URL:    testConference,
		Quotas: map[event.RoomType]int{roomType: quota},
	})
	if err != nil {
		t.Fatalf("set conference details: %v", err)
	}
}

// staleLoadStore serves one pre-captured journal snapshot on the first load
// and delegates afterwards, forcing the first save into a version conflict.
type staleLoadStore struct {
	inner        storage.Journals
	staleJSON    []byte
	staleVersion uint64
	served       bool
	loads        int
}

func (s *staleLoadStore) LoadJournal(ctx context.Context, conferenceURL string) (*journal.Journal, uint64, error) {
	s.loads++
	if !s.served {
		s.served = true
		var j journal.Journal
		if err := json.Unmarshal(s.staleJSON, &j); err != nil {
			return nil, 0, err
		}
		return &j, s.staleVersion, nil
	}
	return s.inner.LoadJournal(ctx, conferenceURL)
}

func (s *staleLoadStore) SaveJournal(ctx context.Context, j *journal.Journal, expectedVersion uint64) error {
	return s.inner.SaveJournal(ctx, j, expectedVersion)
}

// conflictStore fails every save with a version conflict.
type conflictStore struct {
	saves int
}

func (s *conflictStore) LoadJournal(_ context.Context, conferenceURL string) (*journal.Journal, uint64, error) {
	return journal.New(conferenceURL), 0, nil
}

func (s *conflictStore) SaveJournal(context.Context, *journal.Journal, uint64) error {
	s.saves++
	return storage.ErrVersionConflict
}

func TestSetConferenceDetails_PersistsAcrossLoads(t *testing.T) {
	svc := newTestService(t, memory.NewStore())
	configureQuota(t, svc, event.RoomTypeSingle, 22)

	details, err := svc.ConferenceDetails(context.Background(), testConference)
	if err != nil {
		t.Fatalf("conference details: %v", err)
	}
	if details.URL != testConference {
		t.Fatalf("url = %q", details.URL)
	}
	if details.Quotas[event.RoomTypeSingle] != 22 {
		t.Fatalf("quota = %d, want 22", details.Quotas[event.RoomTypeSingle])
	}
}

func TestRegisterParticipant_RecordsRejectionsPermanently(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(t, store)
	configureQuota(t, svc, event.RoomTypeSingle, 1)
	ctx := context.Background()

	if _, err := svc.RegisterParticipant(ctx, testConference, event.RoomTypeSingle, 2, "s1", "m1"); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	decision, err := svc.RegisterParticipant(ctx, testConference, event.RoomTypeSingle, 2, "s2", "m2")
	if err != nil {
		t.Fatalf("second registration: %v", err)
	}
	if !decision.Rejected() {
		t.Fatal("second registration should be rejected, room is full")
	}

	j, _, err := store.LoadJournal(ctx, testConference)
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	var rejections int
	for _, evt := range j.RegistrationEvents {
		if evt.Type == event.TypeParticipantNotRegisteredRoomFull {
			rejections++
		}
	}
	if rejections != 1 {
		t.Fatalf("persisted rejection events = %d, want 1", rejections)
	}
}

func TestRegisterParticipant_RetryRevalidatesAgainstFreshState(t *testing.T) {
	inner := memory.NewStore()
	svc := newTestService(t, inner)
	configureQuota(t, svc, event.RoomTypeSingle, 1)
	ctx := context.Background()

	// Snapshot the journal before the winning registration; the loser will
	// be served this stale state on its first attempt.
	stale, staleVersion, err := inner.LoadJournal(ctx, testConference)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	staleJSON, err := json.Marshal(stale)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	winner, err := svc.RegisterParticipant(ctx, testConference, event.RoomTypeSingle, 2, "s1", "m1")
	if err != nil {
		t.Fatalf("winning registration: %v", err)
	}
	if winner.Rejected() {
		t.Fatalf("winner rejected: %v", winner.Events)
	}

	store := &staleLoadStore{inner: inner, staleJSON: staleJSON, staleVersion: staleVersion}
	loser := newTestService(t, store)

	decision, err := loser.RegisterParticipant(ctx, testConference, event.RoomTypeSingle, 2, "s2", "m2")
	if err != nil {
		t.Fatalf("losing registration: %v", err)
	}
	if store.loads < 2 {
		t.Fatalf("loads = %d, want a reload after the conflict", store.loads)
	}
	if !decision.Rejected() {
		t.Fatal("retried command must observe the full room and be rejected")
	}

	j, _, err := inner.LoadJournal(ctx, testConference)
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	var registered int
	for _, evt := range j.RegistrationEvents {
		if evt.Type == event.TypeParticipantRegistered {
			registered++
		}
	}
	if registered != 1 {
		t.Fatalf("registrations = %d, want exactly 1", registered)
	}
}

func TestMutate_SurfacesConflictAfterMaxAttempts(t *testing.T) {
	store := &conflictStore{}
	svc := newTestService(t, store)

	_, err := svc.IssueReservation(context.Background(), testConference, event.RoomTypeSingle, 2, "s1")
	if !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
	if store.saves != testRetry.MaxAttempts {
		t.Fatalf("saves = %d, want %d", store.saves, testRetry.MaxAttempts)
	}
}

func TestWithRetryPolicy_ZeroAttemptsStillTriesOnce(t *testing.T) {
	store := &conflictStore{}
	svc := New(store, memory.NewDirectory(),
		WithClock(func() time.Time { return testNow }),
		WithRetryPolicy(RetryPolicy{MaxAttempts: 0}),
	)

	_, err := svc.IssueReservation(context.Background(), testConference, event.RoomTypeSingle, 2, "s1")
	if !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d, want 1", store.saves)
	}
}

func TestMutate_StopsWhenContextCancelled(t *testing.T) {
	svc := newTestService(t, &conflictStore{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.IssueReservation(ctx, testConference, event.RoomTypeSingle, 2, "s1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestMutate_InputErrorsAreNotRetried(t *testing.T) {
	store := &conflictStore{}
	svc := newTestService(t, store)

	_, err := svc.RegisterParticipant(context.Background(), testConference, event.RoomTypeSingle, 2, "s1", " ")
	if !errors.Is(err, apperrors.New(apperrors.CodeRegistrationEmptyMemberID, "")) {
		t.Fatalf("err = %v, want REGISTRATION_EMPTY_MEMBER_ID", err)
	}
	if store.saves != 0 {
		t.Fatalf("saves = %d, want 0", store.saves)
	}
}

func TestParticipants_EnrichedFromDirectory(t *testing.T) {
	store := memory.NewStore()
	directory := memory.NewDirectory()
	svc := New(store, directory,
		WithClock(func() time.Time { return testNow }),
		WithRetryPolicy(testRetry),
	)
	configureQuota(t, svc, event.RoomTypeSingle, 10)
	ctx := context.Background()

	directory.PutMember(storage.Member{ID: "m1", Nickname: "ada", Email: "ada@example.org"})
	directory.PutSubscriber(storage.Subscriber{MemberID: "m1", Country: "de"})

	for _, ids := range [][2]string{{"s1", "m1"}, {"s2", "m2"}} {
		if _, err := svc.RegisterParticipant(ctx, testConference, event.RoomTypeSingle, 2, ids[0], ids[1]); err != nil {
			t.Fatalf("register %s: %v", ids[1], err)
		}
	}

	infos, err := svc.Participants(ctx, testConference)
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("participants = %d, want 2", len(infos))
	}
	if infos[0].Member.Nickname != "ada" || infos[0].Subscriber.Country != "de" {
		t.Fatalf("m1 not enriched: %+v", infos[0])
	}
	// m2 has no directory record and keeps zero display data.
	if infos[1].Member.Nickname != "" {
		t.Fatalf("m2 unexpectedly enriched: %+v", infos[1])
	}
}

func TestWaitinglist_ListsEntriesInOrder(t *testing.T) {
	svc := newTestService(t, memory.NewStore())
	ctx := context.Background()
	desired := []event.RoomType{event.RoomTypeSingle}

	if _, err := svc.RegisterWaitinglistParticipant(ctx, testConference, desired, 2, "s1", "m1"); err != nil {
		t.Fatalf("waitinglist entry: %v", err)
	}

	entries, err := svc.Waitinglist(ctx, testConference)
	if err != nil {
		t.Fatalf("waitinglist: %v", err)
	}
	if len(entries) != 1 || entries[0].Entry.MemberID != "m1" {
		t.Fatalf("waitinglist = %+v", entries)
	}
}

func TestOccupancy_ReportsPerRoomType(t *testing.T) {
	svc := newTestService(t, memory.NewStore())
	configureQuota(t, svc, event.RoomTypeSingle, 3)
	ctx := context.Background()

	if _, err := svc.RegisterParticipant(ctx, testConference, event.RoomTypeSingle, 2, "s1", "m1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.IssueReservation(ctx, testConference, event.RoomTypeSingle, 2, "s2"); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	occupancies, err := svc.Occupancy(ctx, testConference)
	if err != nil {
		t.Fatalf("occupancy: %v", err)
	}
	for _, occupancy := range occupancies {
		if occupancy.RoomType != event.RoomTypeSingle {
			continue
		}
		if occupancy.Quota != 3 || occupancy.Registered != 1 || occupancy.Reserved != 1 || occupancy.Free != 1 {
			t.Fatalf("occupancy = %+v", occupancy)
		}
		return
	}
	t.Fatal("single room type missing from occupancy")
}

func TestRoomPairs_ReflectsPairingCommands(t *testing.T) {
	svc := newTestService(t, memory.NewStore())
	configureQuota(t, svc, event.RoomTypeBedInDouble, 10)
	ctx := context.Background()

	for _, ids := range [][2]string{{"s1", "m1"}, {"s2", "m2"}} {
		if _, err := svc.RegisterParticipant(ctx, testConference, event.RoomTypeBedInDouble, 2, ids[0], ids[1]); err != nil {
			t.Fatalf("register %s: %v", ids[1], err)
		}
	}
	if _, err := svc.AddParticipantPair(ctx, testConference, event.RoomTypeBedInDouble, "m1", "m2"); err != nil {
		t.Fatalf("pair: %v", err)
	}

	pairs, err := svc.RoomPairs(ctx, testConference, event.RoomTypeBedInDouble)
	if err != nil {
		t.Fatalf("room pairs: %v", err)
	}
	if len(pairs) != 1 || !pairs[0].Contains("m1") || !pairs[0].Contains("m2") {
		t.Fatalf("pairs = %+v", pairs)
	}
}
