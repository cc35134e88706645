// Package storage defines the persistence ports of the registration engine.
package storage

import (
	"context"

	apperrors "github.com/softwerkskammer/socrates-registration/internal/platform/errors"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrVersionConflict indicates a save lost the compare-and-swap race: the
// stored version no longer equals the version the writer read. Recoverable
// by reloading and re-running the command.
var ErrVersionConflict = apperrors.New(apperrors.CodeVersionConflict, "journal version conflict")

// ErrMemberNotFound indicates the directory has no member for the id.
var ErrMemberNotFound = apperrors.New(apperrors.CodeMemberNotFound, "member not found")

// Journals persists one journal per conference with optimistic concurrency.
//
// Versions are opaque to the domain: LoadJournal reports the version a
// caller must present to SaveJournal, and a successful save advances it.
type Journals interface {
	// LoadJournal returns the journal for a conference URL and its current
	// version. A conference without a journal yields an empty journal at
	// version 0; the first save then creates it.
	LoadJournal(ctx context.Context, conferenceURL string) (*journal.Journal, uint64, error)

	// SaveJournal writes the journal if the stored version still equals
	// expectedVersion, failing with ErrVersionConflict otherwise.
	SaveJournal(ctx context.Context, j *journal.Journal, expectedVersion uint64) error
}

// Member is display data for a community member.
type Member struct {
	ID       string
	Nickname string
	Email    string
}

// Subscriber is display data for a mailing-list subscriber.
type Subscriber struct {
	MemberID string
	Country  string
}

// MemberDirectory looks up display data for read-result enrichment. Lookups
// never influence event-sourcing correctness.
type MemberDirectory interface {
	GetMemberForID(ctx context.Context, memberID string) (Member, error)
	GetSubscriber(ctx context.Context, memberID string) (Subscriber, error)
}
