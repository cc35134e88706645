package sqlitemigrate

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countMigrations(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	var count int64
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	return count
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found int
	err := db.QueryRow("SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("check table %s: %v", name, err)
	}
	return true
}

func TestApplyMigrations_AppliesAndRecords(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE journals(conference_url TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE journals;"),
		},
	}
	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if got := countMigrations(t, db); got != 1 {
		t.Fatalf("migration rows = %d, want 1", got)
	}
	if !tableExists(t, db, "journals") {
		t.Fatal("migrated table missing")
	}
}

func TestApplyMigrations_IsIdempotent(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE journals(conference_url TEXT PRIMARY KEY);"),
		},
	}
	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(db, migrations, ""); err != nil {
			t.Fatalf("apply %d: %v", i+1, err)
		}
	}
	if got := countMigrations(t, db); got != 1 {
		t.Fatalf("migration rows = %d, want 1", got)
	}
}

func TestApplyMigrations_RespectsMigrationRoot(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"journals/0001_init.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE journals(conference_url TEXT PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(db, migrations, "journals"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	var key string
	if err := db.QueryRow("SELECT name FROM schema_migrations LIMIT 1").Scan(&key); err != nil {
		t.Fatalf("read migration key: %v", err)
	}
	if key != "journals/0001_init.sql" {
		t.Fatalf("migration key = %q, want root-scoped path", key)
	}
}

func TestExtractUpMigration_DropsDownSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a(id TEXT);\n-- +migrate Down\nDROP TABLE a;"
	up := ExtractUpMigration(content)
	if up != "\nCREATE TABLE a(id TEXT);\n" {
		t.Fatalf("up section = %q", up)
	}
}
