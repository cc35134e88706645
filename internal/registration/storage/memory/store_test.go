package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage"
)

var testNow = time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)

func TestLoadJournal_MissingYieldsEmptyAtVersionZero(t *testing.T) {
	store := NewStore()

	j, version, err := store.LoadJournal(context.Background(), "socrates-2026")
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	if version != 0 {
		t.Fatalf("version = %d, want 0", version)
	}
	if j.ConferenceURL != "socrates-2026" || len(j.ConfigEvents) != 0 {
		t.Fatalf("journal = %+v, want empty", j)
	}
}

func TestSaveJournal_RoundTripAdvancesVersion(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	j := journal.New("socrates-2026")
	j.EnsureID(testNow)
	j.AppendConfigEvents(event.RoomQuotaSet(testNow, event.RoomTypeSingle, 10))

	if err := store.SaveJournal(ctx, j, 0); err != nil {
		t.Fatalf("first save: %v", err)
	}

	loaded, version, err := store.LoadJournal(ctx, "socrates-2026")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if version != 1 {
		t.Fatalf("version = %d, want 1", version)
	}
	if loaded.ID != j.ID || len(loaded.ConfigEvents) != 1 {
		t.Fatalf("journal lost data: %+v", loaded)
	}

	loaded.AppendRegistrationEvents(event.ReservationIssued(testNow, "s1", event.RoomTypeSingle, 2))
	if err := store.SaveJournal(ctx, loaded, 1); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if _, version, _ = store.LoadJournal(ctx, "socrates-2026"); version != 2 {
		t.Fatalf("version = %d, want 2", version)
	}
}

func TestSaveJournal_StaleVersionConflicts(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	j := journal.New("socrates-2026")
	if err := store.SaveJournal(ctx, j, 0); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.SaveJournal(ctx, j, 0); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("stale save err = %v, want ErrVersionConflict", err)
	}
}

func TestLoadJournal_DoesNotAliasStoredState(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	j := journal.New("socrates-2026")
	if err := store.SaveJournal(ctx, j, 0); err != nil {
		t.Fatalf("save: %v", err)
	}

	first, _, _ := store.LoadJournal(ctx, "socrates-2026")
	first.AppendConfigEvents(event.URLSet(testNow, "socrates-2026"))

	second, _, _ := store.LoadJournal(ctx, "socrates-2026")
	if len(second.ConfigEvents) != 0 {
		t.Fatal("mutating a loaded journal must not leak into the store")
	}
}

func TestDirectory_Lookups(t *testing.T) {
	directory := NewDirectory()
	ctx := context.Background()

	if _, err := directory.GetMemberForID(ctx, "m1"); !errors.Is(err, storage.ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", err)
	}

	directory.PutMember(storage.Member{ID: "m1", Nickname: "ada", Email: "ada@example.org"})
	directory.PutSubscriber(storage.Subscriber{MemberID: "m1", Country: "de"})

	member, err := directory.GetMemberForID(ctx, "m1")
	if err != nil || member.Nickname != "ada" {
		t.Fatalf("member = %+v, err = %v", member, err)
	}
	subscriber, err := directory.GetSubscriber(ctx, "m1")
	if err != nil || subscriber.Country != "de" {
		t.Fatalf("subscriber = %+v, err = %v", subscriber, err)
	}
}
