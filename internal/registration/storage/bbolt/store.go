// Package bbolt provides bbolt-backed journal persistence for single-binary
// deployments without a SQL database.
package bbolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage"
)

var (
	bucketJournals = []byte("journals")
	bucketVersions = []byte("versions")
)

// Store provides bbolt-backed persistence for conference journals. The
// version check and the write happen inside a single update transaction, so
// the compare-and-swap contract holds without extra locking.
type Store struct {
	db *bolt.DB
}

// Open opens a journal bbolt store, creating the file and buckets as needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketJournals); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketVersions)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying bbolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadJournal implements storage.Journals.
func (s *Store) LoadJournal(ctx context.Context, conferenceURL string) (*journal.Journal, uint64, error) {
	if s == nil || s.db == nil {
		return nil, 0, fmt.Errorf("storage is not configured")
	}
	conferenceURL = strings.TrimSpace(conferenceURL)
	if conferenceURL == "" {
		return nil, 0, fmt.Errorf("conference url is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var j *journal.Journal
	var version uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		document := tx.Bucket(bucketJournals).Get([]byte(conferenceURL))
		if document == nil {
			j = journal.New(conferenceURL)
			return nil
		}
		var decoded journal.Journal
		if err := json.Unmarshal(document, &decoded); err != nil {
			return fmt.Errorf("decode journal %s: %w", conferenceURL, err)
		}
		j = &decoded
		version = storedVersion(tx, conferenceURL)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return j, version, nil
}

// SaveJournal implements storage.Journals.
func (s *Store) SaveJournal(ctx context.Context, j *journal.Journal, expectedVersion uint64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if j == nil {
		return fmt.Errorf("journal is required")
	}
	if strings.TrimSpace(j.ConferenceURL) == "" {
		return fmt.Errorf("conference url is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	document, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("encode journal %s: %w", j.ConferenceURL, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if storedVersion(tx, j.ConferenceURL) != expectedVersion {
			return storage.ErrVersionConflict
		}
		if err := tx.Bucket(bucketJournals).Put([]byte(j.ConferenceURL), document); err != nil {
			return fmt.Errorf("put journal: %w", err)
		}
		next := make([]byte, 8)
		binary.BigEndian.PutUint64(next, expectedVersion+1)
		if err := tx.Bucket(bucketVersions).Put([]byte(j.ConferenceURL), next); err != nil {
			return fmt.Errorf("put journal version: %w", err)
		}
		return nil
	})
}

func storedVersion(tx *bolt.Tx, conferenceURL string) uint64 {
	raw := tx.Bucket(bucketVersions).Get([]byte(conferenceURL))
	if len(raw) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(raw)
}
