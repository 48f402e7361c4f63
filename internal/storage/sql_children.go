package storage

import (
	"database/sql"
	"fmt"

	"dentaltrack/internal/models"
)

// CreateChild inserts a child profile and its zero-count achievement rows.
func (b *SQLBackend) CreateChild(parentID int64, name string, age int, gender, avatarURL string) (int64, error) {
	query := `
		INSERT INTO children (parent_id, name, age, gender, avatar_url)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := b.db.ExecReturningID(query, nullID(parentID), name, nullInt(age), nullString(gender), nullString(avatarURL))
	if err != nil {
		return 0, fmt.Errorf("failed to create child: %w", err)
	}

	for _, achievementType := range models.AchievementTypes {
		insert := "INSERT INTO achievements (child_id, type, count) VALUES (?, ?, 0)"
		if _, err := b.db.Exec(insert, id, achievementType); err != nil {
			return 0, fmt.Errorf("failed to initialize achievements: %w", err)
		}
	}

	return id, nil
}

// GetChildByID retrieves a child by ID, or nil if none exists.
func (b *SQLBackend) GetChildByID(id int64) (*models.Child, error) {
	query := `
		SELECT id, parent_id, name, age, gender, avatar_url
		FROM children
		WHERE id = ?
	`
	child, err := scanChild(b.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return child, nil
}

// GetChildrenByParent retrieves all children of a parent, oldest entry first.
func (b *SQLBackend) GetChildrenByParent(parentID int64) ([]models.Child, error) {
	query := `
		SELECT id, parent_id, name, age, gender, avatar_url
		FROM children
		WHERE parent_id = ?
		ORDER BY id ASC
	`
	rows, err := b.db.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	children := []models.Child{}
	for rows.Next() {
		child, err := scanChild(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, *child)
	}

	return children, rows.Err()
}

func scanChild(scan func(...interface{}) error) (*models.Child, error) {
	child := &models.Child{}
	var parentID, age sql.NullInt64
	var gender, avatarURL sql.NullString

	if err := scan(&child.ID, &parentID, &child.Name, &age, &gender, &avatarURL); err != nil {
		return nil, err
	}

	child.ParentID = parentID.Int64
	child.Age = int(age.Int64)
	child.Gender = gender.String
	child.AvatarURL = avatarURL.String
	return child, nil
}

// UpdateChild updates a child's profile fields.
func (b *SQLBackend) UpdateChild(id int64, name string, age int, gender, avatarURL string) error {
	query := `
		UPDATE children
		SET name = ?, age = ?, gender = ?, avatar_url = ?
		WHERE id = ?
	`
	if _, err := b.db.Exec(query, name, nullInt(age), nullString(gender), nullString(avatarURL), id); err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	return nil
}

// DeleteChild removes a child; brushing records, achievements, game scores
// and video progress go with it through the schema's cascade rules.
func (b *SQLBackend) DeleteChild(id int64) error {
	if _, err := b.db.Exec("DELETE FROM children WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}
