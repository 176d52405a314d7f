package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestApplyRunsInOrderAndOnce(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_add_column.sql": {Data: []byte("-- +migrate Up\nALTER TABLE probe ADD COLUMN label TEXT;\n-- +migrate Down\nSELECT 1;\n")},
		"0001_init.sql":       {Data: []byte("-- +migrate Up\nCREATE TABLE probe (id TEXT PRIMARY KEY);\n")},
	}
	sqlDB := openTestDB(t)

	if err := Apply(sqlDB, fsys); err != nil {
		t.Fatalf("apply: %v", err)
	}
	// Re-applying is a no-op.
	if err := Apply(sqlDB, fsys); err != nil {
		t.Fatalf("re-apply: %v", err)
	}

	if _, err := sqlDB.Exec("INSERT INTO probe (id, label) VALUES ('x', 'y')"); err != nil {
		t.Fatalf("expected both migrations applied: %v", err)
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", count)
	}
}

func TestApplyToleratesExistingDDL(t *testing.T) {
	sqlDB := openTestDB(t)
	if _, err := sqlDB.Exec("CREATE TABLE probe (id TEXT PRIMARY KEY)"); err != nil {
		t.Fatalf("pre-create: %v", err)
	}

	fsys := fstest.MapFS{
		"0001_init.sql": {Data: []byte("CREATE TABLE probe (id TEXT PRIMARY KEY);")},
	}
	if err := Apply(sqlDB, fsys); err != nil {
		t.Fatalf("apply over existing table: %v", err)
	}
}

func TestApplySkipsDownSection(t *testing.T) {
	sqlDB := openTestDB(t)
	fsys := fstest.MapFS{
		"0001_init.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE probe (id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE probe;\n")},
	}

	if err := Apply(sqlDB, fsys); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := sqlDB.Exec("INSERT INTO probe (id) VALUES ('x')"); err != nil {
		t.Fatalf("expected table to exist: %v", err)
	}
}
