package storage

import (
	"path/filepath"
	"testing"

	"dentaltrack/internal/kvstore"
	"dentaltrack/internal/models"
)

func newTestKVBackend(t *testing.T) *KVBackend {
	t.Helper()

	store, err := kvstore.NewFileStore(filepath.Join(t.TempDir(), "fallback.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return NewKVBackend(store)
}

func TestKVUserLifecycle(t *testing.T) {
	backend := newTestKVBackend(t)

	id, err := backend.CreateUser("+989123456789", models.RoleParent)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := backend.CreateUser("+989123456789", models.RoleParent); err == nil {
		t.Error("CreateUser() with duplicate username should fail")
	}

	user, err := backend.GetUserByUsername("+989123456789")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if user == nil || user.ID != id || user.Role != models.RoleParent {
		t.Errorf("GetUserByUsername() = %+v", user)
	}

	missing, err := backend.GetUserByUsername("+989000000000")
	if err != nil || missing != nil {
		t.Errorf("GetUserByUsername(missing) = %+v, err %v, want nil, nil", missing, err)
	}

	if err := backend.UpdateUserRole(id, models.RoleCaretaker); err != nil {
		t.Fatalf("UpdateUserRole() error = %v", err)
	}
	if err := backend.UpdateUserProfile(id, `{"fullName":"Test"}`); err != nil {
		t.Fatalf("UpdateUserProfile() error = %v", err)
	}

	user, _ = backend.GetUserByID(id)
	if user.Role != models.RoleCaretaker || user.ProfileData != `{"fullName":"Test"}` {
		t.Errorf("user after updates = %+v", user)
	}
}

func TestKVChildCreationInitializesAchievements(t *testing.T) {
	backend := newTestKVBackend(t)

	parentID, _ := backend.CreateUser("+989123456789", models.RoleParent)
	childID, err := backend.CreateChild(parentID, "کودک", 0, "", "")
	if err != nil {
		t.Fatalf("CreateChild() error = %v", err)
	}

	achievements, err := backend.GetAchievementsByChild(childID)
	if err != nil {
		t.Fatalf("GetAchievementsByChild() error = %v", err)
	}
	if len(achievements) != len(models.AchievementTypes) {
		t.Fatalf("got %d achievement rows, want %d", len(achievements), len(models.AchievementTypes))
	}
	for _, achievement := range achievements {
		if achievement.Count != 0 {
			t.Errorf("achievement %s initialized with count %d, want 0", achievement.Type, achievement.Count)
		}
	}
}

func TestKVBrushingRecordUpsert(t *testing.T) {
	backend := newTestKVBackend(t)

	parentID, _ := backend.CreateUser("+989123456789", models.RoleParent)
	childID, _ := backend.CreateChild(parentID, "کودک", 0, "", "")

	id1, inserted, err := backend.SaveBrushingRecord(childID, "2024-03-01", models.TimeOfDayMorning, "3", true)
	if err != nil {
		t.Fatalf("SaveBrushingRecord() error = %v", err)
	}
	if !inserted {
		t.Error("first save should insert")
	}

	id2, inserted, err := backend.SaveBrushingRecord(childID, "2024-03-01", models.TimeOfDayMorning, "5", true)
	if err != nil {
		t.Fatalf("SaveBrushingRecord() repeat error = %v", err)
	}
	if inserted {
		t.Error("second save should update in place")
	}
	if id1 != id2 {
		t.Errorf("upsert changed ID: %d != %d", id1, id2)
	}

	records, err := backend.ListBrushingRecords(childID, "", "")
	if err != nil {
		t.Fatalf("ListBrushingRecords() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want exactly 1", len(records))
	}
	if records[0].DurationMinutes != "5" {
		t.Errorf("DurationMinutes = %q, want latest write %q", records[0].DurationMinutes, "5")
	}
}

func TestKVBrushingRecordDateRange(t *testing.T) {
	backend := newTestKVBackend(t)

	parentID, _ := backend.CreateUser("+989123456789", models.RoleParent)
	childID, _ := backend.CreateChild(parentID, "کودک", 0, "", "")

	dates := []string{"2024-02-28", "2024-03-01", "2024-03-15", "2024-04-01"}
	for _, date := range dates {
		if _, _, err := backend.SaveBrushingRecord(childID, date, models.TimeOfDayMorning, "2", true); err != nil {
			t.Fatalf("SaveBrushingRecord(%s) error = %v", date, err)
		}
	}

	records, err := backend.ListBrushingRecords(childID, "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("ListBrushingRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records in range, want 2", len(records))
	}
	// Newest first
	if records[0].Date != "2024-03-15" || records[1].Date != "2024-03-01" {
		t.Errorf("range order = %s, %s", records[0].Date, records[1].Date)
	}
}

func TestKVReminderUpsert(t *testing.T) {
	backend := newTestKVBackend(t)

	userID, _ := backend.CreateUser("+989123456789", models.RoleParent)

	id1, err := backend.SaveReminder(userID, models.ReminderBrushMorning, "07:30", models.DefaultMorningReminderMessage, true)
	if err != nil {
		t.Fatalf("SaveReminder() error = %v", err)
	}
	id2, err := backend.SaveReminder(userID, models.ReminderBrushMorning, "08:00", models.DefaultMorningReminderMessage, false)
	if err != nil {
		t.Fatalf("SaveReminder() repeat error = %v", err)
	}
	if id1 != id2 {
		t.Errorf("upsert changed ID: %d != %d", id1, id2)
	}

	reminders, err := backend.GetRemindersByUser(userID)
	if err != nil {
		t.Fatalf("GetRemindersByUser() error = %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("got %d reminders, want exactly 1", len(reminders))
	}
	if reminders[0].Time != "08:00" || reminders[0].Enabled {
		t.Errorf("reminder = %+v, want latest write", reminders[0])
	}
}

func TestKVAchievementIncrements(t *testing.T) {
	backend := newTestKVBackend(t)

	parentID, _ := backend.CreateUser("+989123456789", models.RoleParent)
	childID, _ := backend.CreateChild(parentID, "کودک", 0, "", "")

	if err := backend.IncrementAchievement(childID, models.AchievementStars, 3); err != nil {
		t.Fatalf("IncrementAchievement() error = %v", err)
	}
	if err := backend.IncrementAchievement(childID, models.AchievementStars, 2); err != nil {
		t.Fatalf("IncrementAchievement() error = %v", err)
	}

	achievements, _ := backend.GetAchievementsByChild(childID)
	counts := map[string]int{}
	for _, achievement := range achievements {
		counts[achievement.Type] = achievement.Count
	}
	if counts[models.AchievementStars] != 5 {
		t.Errorf("stars = %d, want 5", counts[models.AchievementStars])
	}
	if counts[models.AchievementDiamonds] != 0 {
		t.Errorf("diamonds = %d, want 0", counts[models.AchievementDiamonds])
	}
	if len(achievements) != len(models.AchievementTypes) {
		t.Errorf("increment created extra rows: %d", len(achievements))
	}
}

func TestKVGameScoreAndVideoProgressUpsert(t *testing.T) {
	backend := newTestKVBackend(t)

	parentID, _ := backend.CreateUser("+989123456789", models.RoleParent)
	childID, _ := backend.CreateChild(parentID, "کودک", 0, "", "")

	if _, err := backend.SaveGameScore(childID, "brushingGame", 10); err != nil {
		t.Fatalf("SaveGameScore() error = %v", err)
	}
	if _, err := backend.SaveGameScore(childID, "brushingGame", 25); err != nil {
		t.Fatalf("SaveGameScore() repeat error = %v", err)
	}

	scores, _ := backend.GetGameScoresByChild(childID)
	if len(scores) != 1 || scores[0].Score != 25 {
		t.Errorf("scores = %+v, want one row with latest score", scores)
	}

	if _, err := backend.SaveVideoProgress(childID, "video-1", 0.5, false); err != nil {
		t.Fatalf("SaveVideoProgress() error = %v", err)
	}
	if _, err := backend.SaveVideoProgress(childID, "video-1", 1.0, true); err != nil {
		t.Fatalf("SaveVideoProgress() repeat error = %v", err)
	}

	progress, _ := backend.GetVideoProgressByChild(childID)
	if len(progress) != 1 || !progress[0].Completed {
		t.Errorf("progress = %+v, want one completed row", progress)
	}
}

func TestKVSchoolCascadeDelete(t *testing.T) {
	backend := newTestKVBackend(t)

	caretakerID, _ := backend.CreateUser("+989120000000", models.RoleCaretaker)
	schoolID, err := backend.CreateSchool(caretakerID, "مدرسه شهید بهشتی", models.SchoolTypeBoys, []string{"saturday", "monday"})
	if err != nil {
		t.Fatalf("CreateSchool() error = %v", err)
	}

	studentID, err := backend.CreateStudent(schoolID, "علی", 8, "second")
	if err != nil {
		t.Fatalf("CreateStudent() error = %v", err)
	}
	otherSchoolID, _ := backend.CreateSchool(caretakerID, "مدرسه دیگر", models.SchoolTypeGirls, nil)
	otherStudentID, _ := backend.CreateStudent(otherSchoolID, "مریم", 9, "third")

	if _, err := backend.CreateHealthRecord(studentID, "2024-03-01", "checkup", models.HealthDetails{HasBrushed: true, HasCavity: true, NeedsReferral: true}); err != nil {
		t.Fatalf("CreateHealthRecord() error = %v", err)
	}

	if err := backend.DeleteSchool(schoolID); err != nil {
		t.Fatalf("DeleteSchool() error = %v", err)
	}

	students, _ := backend.GetStudentsBySchool(schoolID)
	if len(students) != 0 {
		t.Errorf("school still has %d students after delete", len(students))
	}
	records, _ := backend.GetHealthRecordsByStudent(studentID)
	if len(records) != 0 {
		t.Errorf("student still has %d health records after cascade", len(records))
	}

	// The sibling school is untouched
	remaining, _ := backend.GetStudentsBySchool(otherSchoolID)
	if len(remaining) != 1 || remaining[0].ID != otherStudentID {
		t.Errorf("sibling school students = %+v", remaining)
	}
}

func TestKVHealthRecordResolution(t *testing.T) {
	backend := newTestKVBackend(t)

	caretakerID, _ := backend.CreateUser("+989120000000", models.RoleCaretaker)
	schoolID, _ := backend.CreateSchool(caretakerID, "مدرسه", models.SchoolTypeBoys, nil)
	studentID, _ := backend.CreateStudent(schoolID, "علی", 8, "second")

	recordID, _ := backend.CreateHealthRecord(studentID, "2024-03-01", "referral", models.HealthDetails{NeedsReferral: true, ReferralNotes: "cavity"})

	if err := backend.SetHealthRecordResolved(recordID, true); err != nil {
		t.Fatalf("SetHealthRecordResolved() error = %v", err)
	}

	records, _ := backend.GetHealthRecordsByStudent(studentID)
	if len(records) != 1 || !records[0].Details.Resolved {
		t.Errorf("records = %+v, want resolved", records)
	}
}

// IDs must not repeat after a delete, unlike the legacy length+1 scheme.
func TestKVIDsUniqueAfterDelete(t *testing.T) {
	backend := newTestKVBackend(t)

	parentID, _ := backend.CreateUser("+989123456789", models.RoleParent)
	firstChild, _ := backend.CreateChild(parentID, "اول", 0, "", "")
	if err := backend.DeleteChild(firstChild); err != nil {
		t.Fatalf("DeleteChild() error = %v", err)
	}

	secondChild, _ := backend.CreateChild(parentID, "دوم", 0, "", "")
	if secondChild == firstChild {
		t.Errorf("ID %d reused after delete", secondChild)
	}
}

func TestKVSurveyResponses(t *testing.T) {
	backend := newTestKVBackend(t)

	first, err := backend.SaveSurveyResponse(models.SurveyResponse{
		ParentID:       "+989123456789",
		ChildName:      "سارا",
		Timestamp:      "2024-03-01T10:00:00Z",
		SnackFrequency: "daily",
	})
	if err != nil {
		t.Fatalf("SaveSurveyResponse() error = %v", err)
	}
	second, err := backend.SaveSurveyResponse(models.SurveyResponse{
		ParentID:  "+989123456789",
		Timestamp: "2024-03-08T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("SaveSurveyResponse() error = %v", err)
	}
	if _, err := backend.SaveSurveyResponse(models.SurveyResponse{
		ParentID:  "+989120000000",
		Timestamp: "2024-03-02T10:00:00Z",
	}); err != nil {
		t.Fatalf("SaveSurveyResponse() error = %v", err)
	}

	responses, err := backend.GetSurveyResponsesByParent("+989123456789")
	if err != nil {
		t.Fatalf("GetSurveyResponsesByParent() error = %v", err)
	}
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}
	if responses[0].ID != first || responses[1].ID != second {
		t.Errorf("responses out of order: %+v", responses)
	}
	if responses[0].SnackFrequency != "daily" {
		t.Errorf("first response = %+v", responses[0])
	}

	none, err := backend.GetSurveyResponsesByParent("+989111111111")
	if err != nil || len(none) != 0 {
		t.Errorf("GetSurveyResponsesByParent(unknown) = %+v, err %v", none, err)
	}
}
