// Package memory provides in-memory storage implementations used by tests
// and the demo tooling.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage"
)

type record struct {
	document []byte
	version  uint64
}

// Store is an in-memory Journals implementation with the same
// compare-and-swap contract as the persistent stores. Journals are kept as
// JSON documents so loads never alias a caller's journal.
type Store struct {
	mu       sync.Mutex
	journals map[string]record
}

// NewStore creates an empty in-memory journal store.
func NewStore() *Store {
	return &Store{journals: make(map[string]record)}
}

// LoadJournal implements storage.Journals.
func (s *Store) LoadJournal(_ context.Context, conferenceURL string) (*journal.Journal, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.journals[conferenceURL]
	if !ok {
		return journal.New(conferenceURL), 0, nil
	}
	var j journal.Journal
	if err := json.Unmarshal(rec.document, &j); err != nil {
		return nil, 0, fmt.Errorf("decode journal %s: %w", conferenceURL, err)
	}
	return &j, rec.version, nil
}

// SaveJournal implements storage.Journals.
func (s *Store) SaveJournal(_ context.Context, j *journal.Journal, expectedVersion uint64) error {
	document, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("encode journal %s: %w", j.ConferenceURL, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current uint64
	if rec, ok := s.journals[j.ConferenceURL]; ok {
		current = rec.version
	}
	if current != expectedVersion {
		return storage.ErrVersionConflict
	}
	s.journals[j.ConferenceURL] = record{document: document, version: expectedVersion + 1}
	return nil
}

// Directory is an in-memory MemberDirectory implementation.
type Directory struct {
	mu          sync.Mutex
	members     map[string]storage.Member
	subscribers map[string]storage.Subscriber
}

// NewDirectory creates an empty in-memory member directory.
func NewDirectory() *Directory {
	return &Directory{
		members:     make(map[string]storage.Member),
		subscribers: make(map[string]storage.Subscriber),
	}
}

// PutMember stores or replaces a member.
func (d *Directory) PutMember(member storage.Member) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[member.ID] = member
}

// PutSubscriber stores or replaces a subscriber.
func (d *Directory) PutSubscriber(subscriber storage.Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[subscriber.MemberID] = subscriber
}

// GetMemberForID implements storage.MemberDirectory.
func (d *Directory) GetMemberForID(_ context.Context, memberID string) (storage.Member, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	member, ok := d.members[memberID]
	if !ok {
		return storage.Member{}, storage.ErrMemberNotFound
	}
	return member, nil
}

// GetSubscriber implements storage.MemberDirectory.
func (d *Directory) GetSubscriber(_ context.Context, memberID string) (storage.Subscriber, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	subscriber, ok := d.subscribers[memberID]
	if !ok {
		return storage.Subscriber{}, storage.ErrMemberNotFound
	}
	return subscriber, nil
}
