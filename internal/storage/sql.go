package storage

import (
	"database/sql"

	"dentaltrack/internal/database"
)

// SQLBackend implements Backend over the relational schema.
type SQLBackend struct {
	db *database.DB
}

var _ Backend = (*SQLBackend)(nil)

// NewSQLBackend creates a relational backend over an initialized connection.
func NewSQLBackend(db *database.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt maps zero to SQL NULL; zero means the field was never filled in.
func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

// nullID maps a zero row reference to SQL NULL. Foreign keys reject a
// literal 0.
func nullID(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}
