package database

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestEnsureSchemaIdempotent verifies schema creation is safe to run on
// every startup
func TestEnsureSchemaIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	if err := db.EnsureSchema(); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := db.EnsureSchema(); err != nil {
		t.Fatalf("EnsureSchema() second run error = %v", err)
	}

	tables := []string{
		"users", "children", "brushing_records", "reminders", "achievements",
		"game_scores", "video_progress", "schools", "students", "health_records",
		"survey_responses",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

// TestEnsureSchemaAddsProfileDataColumn verifies the additive upgrade path
// for tables created before profile_data existed
func TestEnsureSchemaAddsProfileDataColumn(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	// Recreate the pre-release users table without profile_data
	_, err := db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username VARCHAR(255) NOT NULL UNIQUE,
		role VARCHAR(32) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		t.Fatalf("failed to create legacy users table: %v", err)
	}

	if exists, _ := db.columnExists("users", "profile_data"); exists {
		t.Fatal("legacy table unexpectedly has profile_data")
	}

	if err := db.EnsureSchema(); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	exists, err := db.columnExists("users", "profile_data")
	if err != nil {
		t.Fatalf("columnExists() error = %v", err)
	}
	if !exists {
		t.Error("profile_data column was not added to the legacy users table")
	}

	// Existing data must survive the upgrade
	if _, err := db.Exec("INSERT INTO users (username, role) VALUES (?, ?)", "+989123456789", "parent"); err != nil {
		t.Fatalf("insert after upgrade failed: %v", err)
	}
}
