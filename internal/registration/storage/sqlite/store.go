// Package sqlite provides SQLite-backed journal persistence.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/softwerkskammer/socrates-registration/internal/platform/storage/sqlitemigrate"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage"
	"github.com/softwerkskammer/socrates-registration/internal/registration/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for conference journals. Each
// journal is one JSON document row guarded by an integer version column;
// SaveJournal succeeds only when the stored version matches the version the
// caller read.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a journal SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.JournalsFS, "journals"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// LoadJournal implements storage.Journals.
func (s *Store) LoadJournal(ctx context.Context, conferenceURL string) (*journal.Journal, uint64, error) {
	if s == nil || s.sqlDB == nil {
		return nil, 0, fmt.Errorf("storage is not configured")
	}
	conferenceURL = strings.TrimSpace(conferenceURL)
	if conferenceURL == "" {
		return nil, 0, fmt.Errorf("conference url is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT version, document_json FROM journals WHERE conference_url = ?`,
		conferenceURL,
	)

	var version int64
	var document string
	if err := row.Scan(&version, &document); err != nil {
		if err == sql.ErrNoRows {
			return journal.New(conferenceURL), 0, nil
		}
		return nil, 0, fmt.Errorf("load journal: %w", err)
	}

	var j journal.Journal
	if err := json.Unmarshal([]byte(document), &j); err != nil {
		return nil, 0, fmt.Errorf("decode journal %s: %w", conferenceURL, err)
	}
	return &j, uint64(version), nil
}

// SaveJournal implements storage.Journals. Version 0 inserts a new row; any
// other version is a compare-and-swap update. A save that matches no row
// lost the race and fails with storage.ErrVersionConflict.
func (s *Store) SaveJournal(ctx context.Context, j *journal.Journal, expectedVersion uint64) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if j == nil {
		return fmt.Errorf("journal is required")
	}
	if strings.TrimSpace(j.ConferenceURL) == "" {
		return fmt.Errorf("conference url is required")
	}

	document, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("encode journal %s: %w", j.ConferenceURL, err)
	}
	updatedAt := s.now().UTC().UnixMilli()

	if expectedVersion == 0 {
		_, err := s.sqlDB.ExecContext(
			ctx,
			`INSERT INTO journals (conference_url, journal_id, version, document_json, updated_at)
			 VALUES (?, ?, 1, ?, ?)`,
			j.ConferenceURL,
			j.ID,
			string(document),
			updatedAt,
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return storage.ErrVersionConflict
			}
			return fmt.Errorf("insert journal: %w", err)
		}
		return nil
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE journals
		 SET journal_id = ?, version = ?, document_json = ?, updated_at = ?
		 WHERE conference_url = ? AND version = ?`,
		j.ID,
		int64(expectedVersion+1),
		string(document),
		updatedAt,
		j.ConferenceURL,
		int64(expectedVersion),
	)
	if err != nil {
		return fmt.Errorf("update journal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update journal rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrVersionConflict
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
