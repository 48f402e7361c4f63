package storage

import (
	"database/sql"
	"fmt"

	"dentaltrack/internal/models"
)

// SaveReminder upserts the reminder for (user, type).
func (b *SQLBackend) SaveReminder(userID int64, reminderType, timeHHMM, message string, enabled bool) (int64, error) {
	var existingID int64
	query := "SELECT id FROM reminders WHERE user_id = ? AND type = ?"
	err := b.db.QueryRow(query, userID, reminderType).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to check reminder: %w", err)
	}

	if err == nil {
		update := `
			UPDATE reminders
			SET time = ?, message = ?, enabled = ?
			WHERE id = ?
		`
		if _, err := b.db.Exec(update, timeHHMM, nullString(message), enabled, existingID); err != nil {
			return 0, fmt.Errorf("failed to update reminder: %w", err)
		}
		return existingID, nil
	}

	insert := `
		INSERT INTO reminders (user_id, type, time, message, enabled)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := b.db.ExecReturningID(insert, userID, reminderType, timeHHMM, nullString(message), enabled)
	if err != nil {
		return 0, fmt.Errorf("failed to create reminder: %w", err)
	}
	return id, nil
}

// GetRemindersByUser retrieves all reminders for a user.
func (b *SQLBackend) GetRemindersByUser(userID int64) ([]models.Reminder, error) {
	query := `
		SELECT id, user_id, type, time, message, enabled
		FROM reminders
		WHERE user_id = ?
		ORDER BY id ASC
	`
	rows, err := b.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		reminder := models.Reminder{}
		var message sql.NullString
		if err := rows.Scan(&reminder.ID, &reminder.UserID, &reminder.Type, &reminder.Time, &message, &reminder.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminder.Message = message.String
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}

// DeleteReminder removes a reminder.
func (b *SQLBackend) DeleteReminder(id int64) error {
	if _, err := b.db.Exec("DELETE FROM reminders WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

// IncrementAchievement applies a relative increment to the (child, type)
// counter, creating the row if an older install never initialized it.
func (b *SQLBackend) IncrementAchievement(childID int64, achievementType string, delta int) error {
	query := `
		UPDATE achievements
		SET count = count + ?, last_updated = CURRENT_TIMESTAMP
		WHERE child_id = ? AND type = ?
	`
	result, err := b.db.Exec(query, delta, childID, achievementType)
	if err != nil {
		return fmt.Errorf("failed to update achievement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update achievement: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insert := "INSERT INTO achievements (child_id, type, count) VALUES (?, ?, ?)"
	if _, err := b.db.Exec(insert, childID, achievementType, delta); err != nil {
		return fmt.Errorf("failed to create achievement: %w", err)
	}
	return nil
}

// GetAchievementsByChild retrieves all achievement counters for a child.
func (b *SQLBackend) GetAchievementsByChild(childID int64) ([]models.Achievement, error) {
	query := `
		SELECT id, child_id, type, count, last_updated
		FROM achievements
		WHERE child_id = ?
		ORDER BY id ASC
	`
	rows, err := b.db.Query(query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	achievements := []models.Achievement{}
	for rows.Next() {
		achievement := models.Achievement{}
		if err := rows.Scan(&achievement.ID, &achievement.ChildID, &achievement.Type, &achievement.Count, &achievement.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, achievement)
	}

	return achievements, rows.Err()
}
