package gateway

import (
	"errors"
	"fmt"

	"dentaltrack/internal/models"
)

// ErrNotInitialized is returned when an operation runs before Init or
// after Close.
var ErrNotInitialized = errors.New("gateway not initialized")

// Users

func (g *Gateway) CreateUser(username, role string) (WriteResult, error) {
	id, kind, err := run(g, "create user", func(b backend) (int64, error) {
		return b.CreateUser(username, role)
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Store: kind}, nil
}

func (g *Gateway) GetUserByUsername(username string) (*models.User, error) {
	user, _, err := run(g, "get user by username", func(b backend) (*models.User, error) {
		return b.GetUserByUsername(username)
	})
	return user, err
}

func (g *Gateway) GetUserByID(id int64) (*models.User, error) {
	user, _, err := run(g, "get user by id", func(b backend) (*models.User, error) {
		return b.GetUserByID(id)
	})
	return user, err
}

func (g *Gateway) UpdateUserRole(id int64, role string) error {
	return runVoid(g, "update user role", func(b backend) error {
		return b.UpdateUserRole(id, role)
	})
}

func (g *Gateway) UpdateUserProfile(id int64, profileData string) error {
	return runVoid(g, "update user profile", func(b backend) error {
		return b.UpdateUserProfile(id, profileData)
	})
}

// Children

func (g *Gateway) CreateChild(parentID int64, name string, age int, gender, avatarURL string) (WriteResult, error) {
	if name == "" {
		name = models.DefaultChildName
	}
	id, kind, err := run(g, "create child", func(b backend) (int64, error) {
		return b.CreateChild(parentID, name, age, gender, avatarURL)
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Store: kind}, nil
}

func (g *Gateway) GetChildByID(id int64) (*models.Child, error) {
	child, _, err := run(g, "get child", func(b backend) (*models.Child, error) {
		return b.GetChildByID(id)
	})
	return child, err
}

func (g *Gateway) GetChildrenByParent(parentID int64) ([]models.Child, error) {
	children, _, err := run(g, "list children", func(b backend) ([]models.Child, error) {
		return b.GetChildrenByParent(parentID)
	})
	return children, err
}

func (g *Gateway) UpdateChild(id int64, name string, age int, gender, avatarURL string) error {
	return runVoid(g, "update child", func(b backend) error {
		return b.UpdateChild(id, name, age, gender, avatarURL)
	})
}

func (g *Gateway) DeleteChild(id int64) error {
	return runVoid(g, "delete child", func(b backend) error {
		return b.DeleteChild(id)
	})
}

// Brushing records

// SaveBrushingRecord upserts the record for (child, date, time of day).
// A new record with brushed=true also awards the regularBrushing and
// stars achievements; updates never award twice.
func (g *Gateway) SaveBrushingRecord(childID int64, date, timeOfDay, durationMinutes string, brushed bool) (WriteResult, error) {
	type saveOutcome struct {
		id       int64
		inserted bool
	}
	outcome, kind, err := run(g, "save brushing record", func(b backend) (saveOutcome, error) {
		id, inserted, err := b.SaveBrushingRecord(childID, date, timeOfDay, durationMinutes, brushed)
		if err != nil {
			return saveOutcome{}, err
		}
		if inserted && brushed {
			if err := b.IncrementAchievement(childID, models.AchievementRegularBrushing, 1); err != nil {
				return saveOutcome{}, fmt.Errorf("failed to award brushing achievement: %w", err)
			}
			if err := b.IncrementAchievement(childID, models.AchievementStars, 1); err != nil {
				return saveOutcome{}, fmt.Errorf("failed to award star: %w", err)
			}
		}
		return saveOutcome{id: id, inserted: inserted}, nil
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: outcome.id, Store: kind}, nil
}

// ImportBrushingRecord saves a record without touching achievements.
// Legacy imports use it because the legacy counters already include the
// awards those records earned.
func (g *Gateway) ImportBrushingRecord(childID int64, date, timeOfDay, durationMinutes string, brushed bool) (WriteResult, error) {
	type saveOutcome struct{ id int64 }
	outcome, kind, err := run(g, "import brushing record", func(b backend) (saveOutcome, error) {
		id, _, err := b.SaveBrushingRecord(childID, date, timeOfDay, durationMinutes, brushed)
		return saveOutcome{id: id}, err
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: outcome.id, Store: kind}, nil
}

func (g *Gateway) GetBrushingRecord(childID int64, date, timeOfDay string) (*models.BrushingRecord, error) {
	record, _, err := run(g, "get brushing record", func(b backend) (*models.BrushingRecord, error) {
		return b.GetBrushingRecord(childID, date, timeOfDay)
	})
	return record, err
}

func (g *Gateway) ListBrushingRecords(childID int64, startDate, endDate string) ([]models.BrushingRecord, error) {
	records, _, err := run(g, "list brushing records", func(b backend) ([]models.BrushingRecord, error) {
		return b.ListBrushingRecords(childID, startDate, endDate)
	})
	return records, err
}

// BrushingCalendar projects one month of brushing records into the
// per-date morning/evening shape the calendar view consumes. Keys are
// YYYY-MM-DD dates; dates with no records are absent.
func (g *Gateway) BrushingCalendar(childID int64, year, month int) (map[string]models.BrushingDay, error) {
	startDate := fmt.Sprintf("%04d-%02d-01", year, month)
	endDate := fmt.Sprintf("%04d-%02d-31", year, month)

	records, err := g.ListBrushingRecords(childID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	calendar := make(map[string]models.BrushingDay)
	for _, record := range records {
		day := calendar[record.Date]
		slot := models.BrushingSlot{Brushed: record.Brushed, Time: record.DurationMinutes}
		switch record.TimeOfDay {
		case models.TimeOfDayMorning:
			day.Morning = slot
		case models.TimeOfDayEvening:
			day.Evening = slot
		}
		calendar[record.Date] = day
	}
	return calendar, nil
}

// Reminders

func (g *Gateway) SaveReminder(userID int64, reminderType, timeHHMM, message string, enabled bool) (WriteResult, error) {
	id, kind, err := run(g, "save reminder", func(b backend) (int64, error) {
		return b.SaveReminder(userID, reminderType, timeHHMM, message, enabled)
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Store: kind}, nil
}

func (g *Gateway) GetRemindersByUser(userID int64) ([]models.Reminder, error) {
	reminders, _, err := run(g, "list reminders", func(b backend) ([]models.Reminder, error) {
		return b.GetRemindersByUser(userID)
	})
	return reminders, err
}

func (g *Gateway) DeleteReminder(id int64) error {
	return runVoid(g, "delete reminder", func(b backend) error {
		return b.DeleteReminder(id)
	})
}

// Achievements

func (g *Gateway) IncrementAchievement(childID int64, achievementType string, delta int) error {
	return runVoid(g, "increment achievement", func(b backend) error {
		return b.IncrementAchievement(childID, achievementType, delta)
	})
}

// GetChildAchievements returns the child's counters keyed by type, with
// every known type present even when its row is missing.
func (g *Gateway) GetChildAchievements(childID int64) (map[string]int, error) {
	achievements, _, err := run(g, "get achievements", func(b backend) ([]models.Achievement, error) {
		return b.GetAchievementsByChild(childID)
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(models.AchievementTypes))
	for _, achievementType := range models.AchievementTypes {
		counts[achievementType] = 0
	}
	for _, achievement := range achievements {
		counts[achievement.Type] = achievement.Count
	}
	return counts, nil
}

// Game scores and video progress

// SaveGameScore upserts the score for (child, game). When the game type
// has a matching achievement counter it is bumped alongside, the way the
// healthy-snacks game awards its counter.
func (g *Gateway) SaveGameScore(childID int64, gameType string, score int) (WriteResult, error) {
	id, kind, err := run(g, "save game score", func(b backend) (int64, error) {
		id, err := b.SaveGameScore(childID, gameType, score)
		if err != nil {
			return 0, err
		}
		if isAchievementType(gameType) {
			if err := b.IncrementAchievement(childID, gameType, 1); err != nil {
				return 0, fmt.Errorf("failed to award game achievement: %w", err)
			}
		}
		return id, nil
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Store: kind}, nil
}

// ImportGameScore saves a score without the achievement side-effect.
// Legacy imports use it because the legacy counters already include the
// award the score earned.
func (g *Gateway) ImportGameScore(childID int64, gameType string, score int) (WriteResult, error) {
	id, kind, err := run(g, "import game score", func(b backend) (int64, error) {
		return b.SaveGameScore(childID, gameType, score)
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Store: kind}, nil
}

func isAchievementType(name string) bool {
	for _, achievementType := range models.AchievementTypes {
		if achievementType == name {
			return true
		}
	}
	return false
}

func (g *Gateway) GetGameScoresByChild(childID int64) ([]models.GameScore, error) {
	scores, _, err := run(g, "list game scores", func(b backend) ([]models.GameScore, error) {
		return b.GetGameScoresByChild(childID)
	})
	return scores, err
}

func (g *Gateway) SaveVideoProgress(childID int64, videoID string, progress float64, completed bool) (WriteResult, error) {
	id, kind, err := run(g, "save video progress", func(b backend) (int64, error) {
		return b.SaveVideoProgress(childID, videoID, progress, completed)
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Store: kind}, nil
}

func (g *Gateway) GetVideoProgressByChild(childID int64) ([]models.VideoProgress, error) {
	progress, _, err := run(g, "list video progress", func(b backend) ([]models.VideoProgress, error) {
		return b.GetVideoProgressByChild(childID)
	})
	return progress, err
}

// Schools

func (g *Gateway) CreateSchool(caretakerID int64, name, schoolType string, activityDays []string) (WriteResult, error) {
	id, kind, err := run(g, "create school", func(b backend) (int64, error) {
		return b.CreateSchool(caretakerID, name, schoolType, activityDays)
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Store: kind}, nil
}

func (g *Gateway) GetSchoolsByCaretaker(caretakerID int64) ([]models.School, error) {
	schools, _, err := run(g, "list schools", func(b backend) ([]models.School, error) {
		return b.GetSchoolsByCaretaker(caretakerID)
	})
	return schools, err
}

func (g *Gateway) UpdateSchool(id int64, name, schoolType string, activityDays []string) error {
	return runVoid(g, "update school", func(b backend) error {
		return b.UpdateSchool(id, name, schoolType, activityDays)
	})
}

func (g *Gateway) DeleteSchool(id int64) error {
	return runVoid(g, "delete school", func(b backend) error {
		return b.DeleteSchool(id)
	})
}

func (g *Gateway) CreateStudent(schoolID int64, name string, age int, grade string) (WriteResult, error) {
	id, kind, err := run(g, "create student", func(b backend) (int64, error) {
		return b.CreateStudent(schoolID, name, age, grade)
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Store: kind}, nil
}

func (g *Gateway) GetStudentsBySchool(schoolID int64) ([]models.Student, error) {
	students, _, err := run(g, "list students", func(b backend) ([]models.Student, error) {
		return b.GetStudentsBySchool(schoolID)
	})
	return students, err
}

func (g *Gateway) DeleteStudent(id int64) error {
	return runVoid(g, "delete student", func(b backend) error {
		return b.DeleteStudent(id)
	})
}

func (g *Gateway) CreateHealthRecord(studentID int64, date, recordType string, details models.HealthDetails) (WriteResult, error) {
	id, kind, err := run(g, "create health record", func(b backend) (int64, error) {
		return b.CreateHealthRecord(studentID, date, recordType, details)
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Store: kind}, nil
}

func (g *Gateway) GetHealthRecordsByStudent(studentID int64) ([]models.HealthRecord, error) {
	records, _, err := run(g, "list health records", func(b backend) ([]models.HealthRecord, error) {
		return b.GetHealthRecordsByStudent(studentID)
	})
	return records, err
}

func (g *Gateway) SetHealthRecordResolved(id int64, resolved bool) error {
	return runVoid(g, "resolve health record", func(b backend) error {
		return b.SetHealthRecordResolved(id, resolved)
	})
}

// Survey responses

func (g *Gateway) SaveSurveyResponse(response models.SurveyResponse) (WriteResult, error) {
	id, kind, err := run(g, "save survey response", func(b backend) (int64, error) {
		return b.SaveSurveyResponse(response)
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{ID: id, Store: kind}, nil
}

func (g *Gateway) GetSurveyResponsesByParent(parentID string) ([]models.SurveyResponse, error) {
	responses, _, err := run(g, "list survey responses", func(b backend) ([]models.SurveyResponse, error) {
		return b.GetSurveyResponsesByParent(parentID)
	})
	return responses, err
}
