// Package storage provides the entity operations behind the persistence
// gateway, with two interchangeable adapters: a relational one over the
// SQL schema and a key-value one over the fallback store.
package storage

import "dentaltrack/internal/models"

// Backend is the full set of entity operations the gateway routes.
// Get-by-id style lookups return (nil, nil) when nothing matches; list
// operations return an empty slice, never an error for "no rows".
type Backend interface {
	// Users
	CreateUser(username, role string) (int64, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	UpdateUserRole(id int64, role string) error
	UpdateUserProfile(id int64, profileData string) error

	// Children. Creating a child also creates its zero-count achievement
	// rows; deleting one removes all dependent records.
	CreateChild(parentID int64, name string, age int, gender, avatarURL string) (int64, error)
	GetChildByID(id int64) (*models.Child, error)
	GetChildrenByParent(parentID int64) ([]models.Child, error)
	UpdateChild(id int64, name string, age int, gender, avatarURL string) error
	DeleteChild(id int64) error

	// Brushing records: upsert keyed on (child, date, time of day).
	// inserted reports whether a new row was created rather than updated.
	SaveBrushingRecord(childID int64, date, timeOfDay, durationMinutes string, brushed bool) (id int64, inserted bool, err error)
	GetBrushingRecord(childID int64, date, timeOfDay string) (*models.BrushingRecord, error)
	ListBrushingRecords(childID int64, startDate, endDate string) ([]models.BrushingRecord, error)

	// Reminders: upsert keyed on (user, type).
	SaveReminder(userID int64, reminderType, timeHHMM, message string, enabled bool) (int64, error)
	GetRemindersByUser(userID int64) ([]models.Reminder, error)
	DeleteReminder(id int64) error

	// Achievements: one row per (child, type), mutated only by relative
	// increments.
	IncrementAchievement(childID int64, achievementType string, delta int) error
	GetAchievementsByChild(childID int64) ([]models.Achievement, error)

	// Game scores and video progress: upsert by composite key.
	SaveGameScore(childID int64, gameType string, score int) (int64, error)
	GetGameScoresByChild(childID int64) ([]models.GameScore, error)
	SaveVideoProgress(childID int64, videoID string, progress float64, completed bool) (int64, error)
	GetVideoProgressByChild(childID int64) ([]models.VideoProgress, error)

	// Schools, students and health records. Deleting a school removes its
	// students and their health records; deleting a student removes its
	// health records.
	CreateSchool(caretakerID int64, name, schoolType string, activityDays []string) (int64, error)
	GetSchoolsByCaretaker(caretakerID int64) ([]models.School, error)
	UpdateSchool(id int64, name, schoolType string, activityDays []string) error
	DeleteSchool(id int64) error
	CreateStudent(schoolID int64, name string, age int, grade string) (int64, error)
	GetStudentsBySchool(schoolID int64) ([]models.Student, error)
	DeleteStudent(id int64) error
	CreateHealthRecord(studentID int64, date, recordType string, details models.HealthDetails) (int64, error)
	GetHealthRecordsByStudent(studentID int64) ([]models.HealthRecord, error)
	SetHealthRecordResolved(id int64, resolved bool) error

	// Survey responses: append-only submissions. The ID field of the
	// input is ignored; the stored ID is returned.
	SaveSurveyResponse(response models.SurveyResponse) (int64, error)
	GetSurveyResponsesByParent(parentID string) ([]models.SurveyResponse, error)
}
