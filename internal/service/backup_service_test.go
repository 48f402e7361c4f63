package service

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"dentaltrack/internal/database"
	"dentaltrack/internal/models"
	"dentaltrack/internal/storage"
)

func newBackupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "dental_health.db"))
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.EnsureSchema(); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	return db
}

func TestBackupRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	source := newBackupTestDB(t)
	backend := storage.NewSQLBackend(source)

	parentID, err := backend.CreateUser("+989123456789", models.RoleParent)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	childID, err := backend.CreateChild(parentID, "سارا", 6, "girl", "")
	if err != nil {
		t.Fatalf("CreateChild() error = %v", err)
	}
	if _, _, err := backend.SaveBrushingRecord(childID, "2024-03-01", models.TimeOfDayMorning, "3", true); err != nil {
		t.Fatalf("SaveBrushingRecord() error = %v", err)
	}
	if err := backend.IncrementAchievement(childID, models.AchievementStars, 4); err != nil {
		t.Fatalf("IncrementAchievement() error = %v", err)
	}

	// A child with no parent account, as legacy imports can leave behind.
	orphanID, err := backend.CreateChild(0, "آرش", 0, "", "")
	if err != nil {
		t.Fatalf("CreateChild(orphan) error = %v", err)
	}

	if _, err := backend.SaveSurveyResponse(models.SurveyResponse{
		ParentID:          "+989123456789",
		ChildName:         "سارا",
		Timestamp:         "2024-03-01T10:00:00Z",
		BrushingFrequency: "twice",
	}); err != nil {
		t.Fatalf("SaveSurveyResponse() error = %v", err)
	}

	caretakerID, _ := backend.CreateUser("+989120000000", models.RoleCaretaker)
	schoolID, _ := backend.CreateSchool(caretakerID, "مدرسه", models.SchoolTypeBoys, []string{"saturday"})
	studentID, _ := backend.CreateStudent(schoolID, "علی", 8, "second")
	if _, err := backend.CreateHealthRecord(studentID, "2024-03-01", "checkup", models.HealthDetails{HasCavity: true, Score: 3}); err != nil {
		t.Fatalf("CreateHealthRecord() error = %v", err)
	}

	backupPath := filepath.Join(t.TempDir(), "backup.json")
	if err := NewBackupService(source, zerolog.Nop()).Export(backupPath); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	target := newBackupTestDB(t)
	if err := NewBackupService(target, zerolog.Nop()).Import(backupPath); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	restored := storage.NewSQLBackend(target)
	user, err := restored.GetUserByUsername("+989123456789")
	if err != nil || user == nil || user.ID != parentID {
		t.Fatalf("restored user = %+v, err %v", user, err)
	}

	children, _ := restored.GetChildrenByParent(parentID)
	if len(children) != 1 || children[0].Name != "سارا" {
		t.Errorf("restored children = %+v", children)
	}

	records, _ := restored.ListBrushingRecords(childID, "", "")
	if len(records) != 1 || !records[0].Brushed {
		t.Errorf("restored brushing records = %+v", records)
	}

	achievements, _ := restored.GetAchievementsByChild(childID)
	counts := map[string]int{}
	for _, achievement := range achievements {
		counts[achievement.Type] = achievement.Count
	}
	if counts[models.AchievementStars] != 4 {
		t.Errorf("restored stars = %d, want 4", counts[models.AchievementStars])
	}

	orphan, err := restored.GetChildByID(orphanID)
	if err != nil || orphan == nil {
		t.Fatalf("restored orphan child = %+v, err %v", orphan, err)
	}
	if orphan.ParentID != 0 {
		t.Errorf("orphan ParentID = %d, want 0", orphan.ParentID)
	}

	surveys, _ := restored.GetSurveyResponsesByParent("+989123456789")
	if len(surveys) != 1 || surveys[0].BrushingFrequency != "twice" {
		t.Errorf("restored surveys = %+v", surveys)
	}

	schools, _ := restored.GetSchoolsByCaretaker(caretakerID)
	if len(schools) != 1 || len(schools[0].ActivityDays) != 1 {
		t.Errorf("restored schools = %+v", schools)
	}
	healthRecords, _ := restored.GetHealthRecordsByStudent(studentID)
	if len(healthRecords) != 1 || !healthRecords[0].Details.HasCavity || healthRecords[0].Details.Score != 3 {
		t.Errorf("restored health records = %+v", healthRecords)
	}
}
