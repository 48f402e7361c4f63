package storage

import (
	"database/sql"
	"fmt"

	"dentaltrack/internal/models"
)

// CreateUser inserts a new user and returns its ID. Usernames are unique;
// a duplicate surfaces as a constraint error from the driver.
func (b *SQLBackend) CreateUser(username, role string) (int64, error) {
	query := "INSERT INTO users (username, role) VALUES (?, ?)"
	id, err := b.db.ExecReturningID(query, username, role)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUserByUsername retrieves a user by username, or nil if none exists.
func (b *SQLBackend) GetUserByUsername(username string) (*models.User, error) {
	query := `
		SELECT id, username, role, profile_data, created_at
		FROM users
		WHERE username = ?
	`
	return b.scanUser(b.db.QueryRow(query, username))
}

// GetUserByID retrieves a user by ID, or nil if none exists.
func (b *SQLBackend) GetUserByID(id int64) (*models.User, error) {
	query := `
		SELECT id, username, role, profile_data, created_at
		FROM users
		WHERE id = ?
	`
	return b.scanUser(b.db.QueryRow(query, id))
}

func (b *SQLBackend) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var profileData sql.NullString

	err := row.Scan(&user.ID, &user.Username, &user.Role, &profileData, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.ProfileData = profileData.String
	return user, nil
}

// UpdateUserRole changes a user's role.
func (b *SQLBackend) UpdateUserRole(id int64, role string) error {
	query := "UPDATE users SET role = ? WHERE id = ?"
	if _, err := b.db.Exec(query, role, id); err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return nil
}

// UpdateUserProfile replaces a user's opaque profile blob.
func (b *SQLBackend) UpdateUserProfile(id int64, profileData string) error {
	query := "UPDATE users SET profile_data = ? WHERE id = ?"
	if _, err := b.db.Exec(query, nullString(profileData), id); err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}
