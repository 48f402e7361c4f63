package database

import (
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "SELECT * FROM users WHERE username = ?"
		if result := dialect.RewriteQuery(query); result != query {
			t.Errorf("RewriteQuery() = %v, want unchanged", result)
		}
	})

	t.Run("BoolValue", func(t *testing.T) {
		if dialect.BoolValue(true) != "1" || dialect.BoolValue(false) != "0" {
			t.Error("BoolValue() should return 1/0 for SQLite")
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "INSERT INTO reminders (user_id, type, time) VALUES (?, ?, ?)"
		expected := "INSERT INTO reminders (user_id, type, time) VALUES ($1, $2, $3)"
		if result := dialect.RewriteQuery(query); result != expected {
			t.Errorf("RewriteQuery() = %v, want %v", result, expected)
		}
	})

	t.Run("AutoIncrementPK", func(t *testing.T) {
		if dialect.AutoIncrementPK() != "BIGSERIAL PRIMARY KEY" {
			t.Errorf("AutoIncrementPK() = %v", dialect.AutoIncrementPK())
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for MySQL")
		}
	})
}

func TestSchemaStatementsCoverAllTables(t *testing.T) {
	statements := schemaStatements(NewSQLiteDialect())

	tables := []string{
		"users", "children", "brushing_records", "reminders", "achievements",
		"game_scores", "video_progress", "schools", "students", "health_records",
	}
	if len(statements) != len(tables) {
		t.Fatalf("schemaStatements() returned %d statements, want %d", len(statements), len(tables))
	}

	for i, table := range tables {
		want := "CREATE TABLE IF NOT EXISTS " + table
		if got := statements[i]; len(got) < len(want) || got[:len(want)] != want {
			t.Errorf("statement %d does not begin with %q", i, want)
		}
	}
}
