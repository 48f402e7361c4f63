package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"dentaltrack/internal/database"
	"dentaltrack/internal/models"
)

// BackupData is the complete on-disk backup structure, covering every
// entity table.
type BackupData struct {
	Version         string                 `json:"version"`
	ExportedAt      time.Time              `json:"exported_at"`
	Users           []models.User          `json:"users"`
	Children        []models.Child         `json:"children"`
	BrushingRecords []models.BrushingRecord `json:"brushing_records"`
	Reminders       []models.Reminder      `json:"reminders"`
	Achievements    []models.Achievement   `json:"achievements"`
	GameScores      []models.GameScore     `json:"game_scores"`
	VideoProgress   []models.VideoProgress `json:"video_progress"`
	Schools         []models.School        `json:"schools"`
	Students        []models.Student       `json:"students"`
	HealthRecords   []models.HealthRecord  `json:"health_records"`
	SurveyResponses []models.SurveyResponse `json:"survey_responses"`
}

// BackupService exports and imports the whole database as JSON. The
// family owns its data; this is how it leaves and re-enters the device.
type BackupService struct {
	db  *database.DB
	log zerolog.Logger
}

func NewBackupService(db *database.DB, log zerolog.Logger) *BackupService {
	return &BackupService{db: db, log: log}
}

// Export writes a complete backup of the database to a file.
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}
	s.log.Info().Str("path", outputPath).Msg("database exported")
	return nil
}

// ExportToWriter exports the database as indented JSON to a writer.
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	exports := []struct {
		name string
		run  func(*BackupData) error
	}{
		{"users", s.exportUsers},
		{"children", s.exportChildren},
		{"brushing records", s.exportBrushingRecords},
		{"reminders", s.exportReminders},
		{"achievements", s.exportAchievements},
		{"game scores", s.exportGameScores},
		{"video progress", s.exportVideoProgress},
		{"schools", s.exportSchools},
		{"students", s.exportStudents},
		{"health records", s.exportHealthRecords},
		{"survey responses", s.exportSurveyResponses},
	}
	for _, export := range exports {
		if err := export.run(backup); err != nil {
			return fmt.Errorf("failed to export %s: %w", export.name, err)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a backup file into the database. Rows import in
// foreign-key dependency order with their original IDs.
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a backup from a reader.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	s.log.Info().Str("version", backup.Version).Time("exported_at", backup.ExportedAt).Msg("importing backup")

	imports := []struct {
		name string
		run  func(*BackupData) error
	}{
		{"users", s.importUsers},
		{"children", s.importChildren},
		{"brushing records", s.importBrushingRecords},
		{"reminders", s.importReminders},
		{"achievements", s.importAchievements},
		{"game scores", s.importGameScores},
		{"video progress", s.importVideoProgress},
		{"schools", s.importSchools},
		{"students", s.importStudents},
		{"health records", s.importHealthRecords},
		{"survey responses", s.importSurveyResponses},
	}
	for _, imp := range imports {
		if err := imp.run(&backup); err != nil {
			return fmt.Errorf("failed to import %s: %w", imp.name, err)
		}
	}

	s.log.Info().
		Int("users", len(backup.Users)).
		Int("children", len(backup.Children)).
		Int("brushing_records", len(backup.BrushingRecords)).
		Int("schools", len(backup.Schools)).
		Msg("database import completed")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, username, role, COALESCE(profile_data, ''), created_at FROM users ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.ProfileData, &u.CreatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportChildren(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, COALESCE(parent_id, 0), COALESCE(name, ''), COALESCE(age, 0), COALESCE(gender, ''), COALESCE(avatar_url, '') FROM children ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Child
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Name, &c.Age, &c.Gender, &c.AvatarURL); err != nil {
			return err
		}
		backup.Children = append(backup.Children, c)
	}
	return rows.Err()
}

func (s *BackupService) exportBrushingRecords(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, child_id, date, time_of_day, COALESCE(duration_minutes, ''), brushed FROM brushing_records ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r models.BrushingRecord
		if err := rows.Scan(&r.ID, &r.ChildID, &r.Date, &r.TimeOfDay, &r.DurationMinutes, &r.Brushed); err != nil {
			return err
		}
		backup.BrushingRecords = append(backup.BrushingRecords, r)
	}
	return rows.Err()
}

func (s *BackupService) exportReminders(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, user_id, type, time, COALESCE(message, ''), enabled FROM reminders ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.Type, &r.Time, &r.Message, &r.Enabled); err != nil {
			return err
		}
		backup.Reminders = append(backup.Reminders, r)
	}
	return rows.Err()
}

func (s *BackupService) exportAchievements(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, child_id, type, count, last_updated FROM achievements ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.ChildID, &a.Type, &a.Count, &a.LastUpdated); err != nil {
			return err
		}
		backup.Achievements = append(backup.Achievements, a)
	}
	return rows.Err()
}

func (s *BackupService) exportGameScores(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, child_id, game_type, score, created_at, updated_at FROM game_scores ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g models.GameScore
		if err := rows.Scan(&g.ID, &g.ChildID, &g.GameType, &g.Score, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		backup.GameScores = append(backup.GameScores, g)
	}
	return rows.Err()
}

func (s *BackupService) exportVideoProgress(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, child_id, video_id, progress, completed, last_watched FROM video_progress ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v models.VideoProgress
		if err := rows.Scan(&v.ID, &v.ChildID, &v.VideoID, &v.Progress, &v.Completed, &v.LastWatched); err != nil {
			return err
		}
		backup.VideoProgress = append(backup.VideoProgress, v)
	}
	return rows.Err()
}

func (s *BackupService) exportSchools(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, caretaker_id, name, COALESCE(type, ''), COALESCE(activity_days, '[]') FROM schools ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var school models.School
		var activityDays string
		if err := rows.Scan(&school.ID, &school.CaretakerID, &school.Name, &school.Type, &activityDays); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(activityDays), &school.ActivityDays); err != nil {
			return fmt.Errorf("corrupt activity days for school %d: %w", school.ID, err)
		}
		backup.Schools = append(backup.Schools, school)
	}
	return rows.Err()
}

func (s *BackupService) exportStudents(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, school_id, name, COALESCE(age, 0), COALESCE(grade, '') FROM students ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var student models.Student
		if err := rows.Scan(&student.ID, &student.SchoolID, &student.Name, &student.Age, &student.Grade); err != nil {
			return err
		}
		backup.Students = append(backup.Students, student)
	}
	return rows.Err()
}

func (s *BackupService) exportHealthRecords(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, student_id, date, record_type, COALESCE(details, '{}') FROM health_records ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var record models.HealthRecord
		var details string
		if err := rows.Scan(&record.ID, &record.StudentID, &record.Date, &record.RecordType, &details); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(details), &record.Details); err != nil {
			return fmt.Errorf("corrupt details for health record %d: %w", record.ID, err)
		}
		backup.HealthRecords = append(backup.HealthRecords, record)
	}
	return rows.Err()
}

func (s *BackupService) exportSurveyResponses(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT id, parent_id, COALESCE(child_name, ''), timestamp,
		COALESCE(consent, ''), COALESCE(respondent, ''), COALESCE(grade, ''),
		COALESCE(brushing_frequency, ''), COALESCE(snack_frequency, ''),
		COALESCE(toothpaste_usage, ''), COALESCE(brushing_help, ''),
		COALESCE(brushing_helper, ''), COALESCE(brushing_check, ''),
		COALESCE(brushing_checker, ''), COALESCE(snack_limit, ''), COALESCE(snack_limiter, '')
		FROM survey_responses ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r models.SurveyResponse
		err := rows.Scan(&r.ID, &r.ParentID, &r.ChildName, &r.Timestamp,
			&r.Consent, &r.Respondent, &r.Grade,
			&r.BrushingFrequency, &r.SnackFrequency, &r.ToothpasteUsage,
			&r.BrushingHelp, &r.BrushingHelper, &r.BrushingCheck,
			&r.BrushingChecker, &r.SnackLimit, &r.SnackLimiter)
		if err != nil {
			return err
		}
		backup.SurveyResponses = append(backup.SurveyResponses, r)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(backup *BackupData) error {
	for _, u := range backup.Users {
		_, err := s.db.Exec("INSERT INTO users (id, username, role, profile_data, created_at) VALUES (?, ?, ?, ?, ?)",
			u.ID, u.Username, u.Role, nullIfEmpty(u.ProfileData), u.CreatedAt)
		if err != nil {
			return fmt.Errorf("user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importChildren(backup *BackupData) error {
	for _, c := range backup.Children {
		// A child with no parent exports parent_id as 0; importing 0
		// would trip the foreign key, so it goes back to NULL.
		_, err := s.db.Exec("INSERT INTO children (id, parent_id, name, age, gender, avatar_url) VALUES (?, ?, ?, ?, ?, ?)",
			c.ID, nullIfZeroID(c.ParentID), c.Name, nullIfZero(c.Age), nullIfEmpty(c.Gender), nullIfEmpty(c.AvatarURL))
		if err != nil {
			return fmt.Errorf("child %d: %w", c.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importBrushingRecords(backup *BackupData) error {
	for _, r := range backup.BrushingRecords {
		_, err := s.db.Exec("INSERT INTO brushing_records (id, child_id, date, time_of_day, duration_minutes, brushed) VALUES (?, ?, ?, ?, ?, ?)",
			r.ID, r.ChildID, r.Date, r.TimeOfDay, nullIfEmpty(r.DurationMinutes), r.Brushed)
		if err != nil {
			return fmt.Errorf("brushing record %d: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importReminders(backup *BackupData) error {
	for _, r := range backup.Reminders {
		_, err := s.db.Exec("INSERT INTO reminders (id, user_id, type, time, message, enabled) VALUES (?, ?, ?, ?, ?, ?)",
			r.ID, r.UserID, r.Type, r.Time, nullIfEmpty(r.Message), r.Enabled)
		if err != nil {
			return fmt.Errorf("reminder %d: %w", r.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importAchievements(backup *BackupData) error {
	for _, a := range backup.Achievements {
		_, err := s.db.Exec("INSERT INTO achievements (id, child_id, type, count, last_updated) VALUES (?, ?, ?, ?, ?)",
			a.ID, a.ChildID, a.Type, a.Count, a.LastUpdated)
		if err != nil {
			return fmt.Errorf("achievement %d: %w", a.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importGameScores(backup *BackupData) error {
	for _, g := range backup.GameScores {
		_, err := s.db.Exec("INSERT INTO game_scores (id, child_id, game_type, score, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			g.ID, g.ChildID, g.GameType, g.Score, g.CreatedAt, g.UpdatedAt)
		if err != nil {
			return fmt.Errorf("game score %d: %w", g.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importVideoProgress(backup *BackupData) error {
	for _, v := range backup.VideoProgress {
		_, err := s.db.Exec("INSERT INTO video_progress (id, child_id, video_id, progress, completed, last_watched) VALUES (?, ?, ?, ?, ?, ?)",
			v.ID, v.ChildID, v.VideoID, v.Progress, v.Completed, v.LastWatched)
		if err != nil {
			return fmt.Errorf("video progress %d: %w", v.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSchools(backup *BackupData) error {
	for _, school := range backup.Schools {
		days, err := json.Marshal(school.ActivityDays)
		if err != nil {
			return err
		}
		_, err = s.db.Exec("INSERT INTO schools (id, caretaker_id, name, type, activity_days) VALUES (?, ?, ?, ?, ?)",
			school.ID, school.CaretakerID, school.Name, nullIfEmpty(school.Type), string(days))
		if err != nil {
			return fmt.Errorf("school %d: %w", school.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importStudents(backup *BackupData) error {
	for _, student := range backup.Students {
		_, err := s.db.Exec("INSERT INTO students (id, school_id, name, age, grade) VALUES (?, ?, ?, ?, ?)",
			student.ID, student.SchoolID, student.Name, nullIfZero(student.Age), nullIfEmpty(student.Grade))
		if err != nil {
			return fmt.Errorf("student %d: %w", student.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importHealthRecords(backup *BackupData) error {
	for _, record := range backup.HealthRecords {
		details, err := json.Marshal(record.Details)
		if err != nil {
			return err
		}
		_, err = s.db.Exec("INSERT INTO health_records (id, student_id, date, record_type, details) VALUES (?, ?, ?, ?, ?)",
			record.ID, record.StudentID, record.Date, record.RecordType, string(details))
		if err != nil {
			return fmt.Errorf("health record %d: %w", record.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSurveyResponses(backup *BackupData) error {
	for _, r := range backup.SurveyResponses {
		_, err := s.db.Exec(`INSERT INTO survey_responses (
			id, parent_id, child_name, timestamp, consent, respondent, grade,
			brushing_frequency, snack_frequency, toothpaste_usage,
			brushing_help, brushing_helper, brushing_check,
			brushing_checker, snack_limit, snack_limiter
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.ParentID, nullIfEmpty(r.ChildName), r.Timestamp,
			nullIfEmpty(r.Consent), nullIfEmpty(r.Respondent), nullIfEmpty(r.Grade),
			nullIfEmpty(r.BrushingFrequency), nullIfEmpty(r.SnackFrequency),
			nullIfEmpty(r.ToothpasteUsage), nullIfEmpty(r.BrushingHelp),
			nullIfEmpty(r.BrushingHelper), nullIfEmpty(r.BrushingCheck),
			nullIfEmpty(r.BrushingChecker), nullIfEmpty(r.SnackLimit),
			nullIfEmpty(r.SnackLimiter))
		if err != nil {
			return fmt.Errorf("survey response %d: %w", r.ID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

func nullIfZeroID(n int64) interface{} {
	if n == 0 {
		return nil
	}
	return n
}
