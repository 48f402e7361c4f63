package storage

import (
	"time"

	"dentaltrack/internal/kvstore"
	"dentaltrack/internal/models"
)

// SaveReminder upserts the reminder for (user, type).
func (b *KVBackend) SaveReminder(userID int64, reminderType, timeHHMM, message string, enabled bool) (int64, error) {
	reminders, err := getCollection[models.Reminder](b.store, kvstore.KeyReminders)
	if err != nil {
		return 0, err
	}

	for i := range reminders {
		if reminders[i].UserID == userID && reminders[i].Type == reminderType {
			reminders[i].Time = timeHHMM
			reminders[i].Message = message
			reminders[i].Enabled = enabled
			if err := putCollection(b.store, kvstore.KeyReminders, reminders); err != nil {
				return 0, err
			}
			return reminders[i].ID, nil
		}
	}

	id, err := b.nextID()
	if err != nil {
		return 0, err
	}

	reminders = append(reminders, models.Reminder{
		ID:      id,
		UserID:  userID,
		Type:    reminderType,
		Time:    timeHHMM,
		Message: message,
		Enabled: enabled,
	})
	if err := putCollection(b.store, kvstore.KeyReminders, reminders); err != nil {
		return 0, err
	}
	return id, nil
}

// GetRemindersByUser retrieves all reminders for a user.
func (b *KVBackend) GetRemindersByUser(userID int64) ([]models.Reminder, error) {
	reminders, err := getCollection[models.Reminder](b.store, kvstore.KeyReminders)
	if err != nil {
		return nil, err
	}

	matched := []models.Reminder{}
	for _, reminder := range reminders {
		if reminder.UserID == userID {
			matched = append(matched, reminder)
		}
	}
	return matched, nil
}

// DeleteReminder removes a reminder. Deleting a missing one is a no-op.
func (b *KVBackend) DeleteReminder(id int64) error {
	reminders, err := getCollection[models.Reminder](b.store, kvstore.KeyReminders)
	if err != nil {
		return err
	}

	kept := reminders[:0]
	for _, reminder := range reminders {
		if reminder.ID != id {
			kept = append(kept, reminder)
		}
	}
	return putCollection(b.store, kvstore.KeyReminders, kept)
}

// IncrementAchievement applies a relative increment to the (child, type)
// counter, creating the row if it was never initialized.
func (b *KVBackend) IncrementAchievement(childID int64, achievementType string, delta int) error {
	achievements, err := getCollection[models.Achievement](b.store, kvstore.KeyAchievements)
	if err != nil {
		return err
	}

	for i := range achievements {
		if achievements[i].ChildID == childID && achievements[i].Type == achievementType {
			achievements[i].Count += delta
			achievements[i].LastUpdated = time.Now().UTC()
			return putCollection(b.store, kvstore.KeyAchievements, achievements)
		}
	}

	id, err := b.nextID()
	if err != nil {
		return err
	}

	achievements = append(achievements, models.Achievement{
		ID:          id,
		ChildID:     childID,
		Type:        achievementType,
		Count:       delta,
		LastUpdated: time.Now().UTC(),
	})
	return putCollection(b.store, kvstore.KeyAchievements, achievements)
}

// GetAchievementsByChild retrieves all achievement counters for a child.
func (b *KVBackend) GetAchievementsByChild(childID int64) ([]models.Achievement, error) {
	achievements, err := getCollection[models.Achievement](b.store, kvstore.KeyAchievements)
	if err != nil {
		return nil, err
	}

	matched := []models.Achievement{}
	for _, achievement := range achievements {
		if achievement.ChildID == childID {
			matched = append(matched, achievement)
		}
	}
	return matched, nil
}
