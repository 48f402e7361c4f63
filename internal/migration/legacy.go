package migration

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"dentaltrack/internal/kvstore"
	"dentaltrack/internal/models"
)

// legacyAuth is the pre-schema userAuth entry. Installations written by
// the oldest builds use role "teacher" for what is now a caretaker.
type legacyAuth struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type legacyChildProfile struct {
	FullName  string `json:"fullName"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	AvatarURL string `json:"avatarUrl"`
}

type legacyBrushingSlot struct {
	Brushed bool   `json:"brushed"`
	Time    string `json:"time"`
}

type legacyBrushingDay struct {
	Morning *legacyBrushingSlot `json:"morning"`
	Evening *legacyBrushingSlot `json:"evening"`
}

type legacyReminder struct {
	Time    string `json:"time"`
	Message string `json:"message"`
	Enabled *bool  `json:"enabled"`
}

type legacyReminders struct {
	BrushMorning *legacyReminder `json:"brushMorning"`
	BrushEvening *legacyReminder `json:"brushEvening"`
}

// legacyAlarm is the child-role alarm format: the hour and minute are
// separate numbers rather than an HH:MM string.
type legacyAlarm struct {
	Hour    int   `json:"hour"`
	Minute  int   `json:"minute"`
	Enabled *bool `json:"enabled"`
}

type legacyAlarms struct {
	Morning *legacyAlarm `json:"morning"`
	Evening *legacyAlarm `json:"evening"`
}

type legacyHealthRecord struct {
	Date           string          `json:"date"`
	Type           string          `json:"type"`
	HasBrushed     bool            `json:"hasBrushed"`
	HasCavity      bool            `json:"hasCavity"`
	HasHealthyGums *bool           `json:"hasHealthyGums"`
	Score          int             `json:"score"`
	Notes          string          `json:"notes"`
	WarningFlags   map[string]bool `json:"warningFlags"`
	NeedsReferral  bool            `json:"needsReferral"`
	ReferralNotes  string          `json:"referralNotes"`
	Resolved       bool            `json:"resolved"`
}

type legacyStudent struct {
	Name          string               `json:"name"`
	Age           int                  `json:"age"`
	Grade         string               `json:"grade"`
	HealthRecords []legacyHealthRecord `json:"healthRecords"`
}

type legacySchool struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	ActivityDays []string        `json:"activityDays"`
	Students     []legacyStudent `json:"students"`
}

// normalizeRole maps the legacy "teacher" role onto caretaker and
// defaults a missing role to parent.
func normalizeRole(role string) string {
	switch role {
	case "teacher":
		return models.RoleCaretaker
	case "":
		return models.RoleParent
	default:
		return role
	}
}

// ensureUser looks the legacy account up by username, creating it with
// the given role when this install never touched the database before.
func (m *Migrator) ensureUser(username, role string) (int64, error) {
	user, err := m.gw.GetUserByUsername(username)
	if err != nil {
		return 0, err
	}
	if user != nil {
		return user.ID, nil
	}
	result, err := m.gw.CreateUser(username, role)
	if err != nil {
		return 0, err
	}
	m.log.Info().Str("username", username).Str("role", role).Int64("id", result.ID).Msg("migrated legacy user")
	return result.ID, nil
}

// migrateParentLegacyData moves the single-family data a parent install
// accumulated: account, one child profile, brushing history, achievement
// counters, the two brushing reminders and the parent profile blob. An
// install with no legacy auth entry has nothing to move and the
// migration completes empty.
func (m *Migrator) migrateParentLegacyData() error {
	var auth legacyAuth
	ok, err := m.getJSON(kvstore.KeyLegacyUserAuth, &auth)
	if err != nil {
		return err
	}
	if !ok || auth.Username == "" {
		return nil
	}

	role := normalizeRole(auth.Role)
	if role != models.RoleParent {
		// Caretaker and child installs migrate in their own steps.
		return nil
	}
	userID, err := m.ensureUser(auth.Username, role)
	if err != nil {
		return err
	}

	childID, err := m.ensureChild(userID)
	if err != nil {
		return err
	}

	if err := m.migrateBrushingRecords(childID); err != nil {
		return err
	}
	if err := m.migrateAchievements(childID); err != nil {
		return err
	}
	if err := m.migrateReminders(userID); err != nil {
		return err
	}
	return m.mergeProfile(userID, kvstore.KeyLegacyParentProfile)
}

// mergeProfile folds a legacy profile blob into the user's profile_data.
// Keys already present win: a PIN hash written by a login that beat the
// migration must survive.
func (m *Migrator) mergeProfile(userID int64, key string) error {
	legacy := map[string]interface{}{}
	ok, err := m.getJSON(key, &legacy)
	if err != nil {
		return err
	}
	if !ok || len(legacy) == 0 {
		return nil
	}

	user, err := m.gw.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d not found during profile migration", userID)
	}

	profile := map[string]interface{}{}
	if user.ProfileData != "" {
		if err := json.Unmarshal([]byte(user.ProfileData), &profile); err != nil {
			return fmt.Errorf("corrupt profile for user %d: %w", userID, err)
		}
	}
	for field, value := range legacy {
		if _, exists := profile[field]; !exists {
			profile[field] = value
		}
	}

	encoded, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := m.gw.UpdateUserProfile(userID, string(encoded)); err != nil {
		return fmt.Errorf("failed to migrate profile %s: %w", key, err)
	}
	return nil
}

// ensureChild returns the first child owned by the account, creating one
// from the legacy profile when none exists yet. In a child-role install
// the account owns its own child record.
func (m *Migrator) ensureChild(parentID int64) (int64, error) {
	children, err := m.gw.GetChildrenByParent(parentID)
	if err != nil {
		return 0, err
	}
	if len(children) > 0 {
		return children[0].ID, nil
	}

	var profile legacyChildProfile
	if _, err := m.getJSON(kvstore.KeyLegacyChildProfile, &profile); err != nil {
		return 0, err
	}
	name := profile.FullName
	if name == "" {
		// The oldest builds stored the name as a bare string.
		if raw, ok, err := m.store.Get(kvstore.KeyLegacyChildName); err != nil {
			return 0, err
		} else if ok {
			name = raw
		}
	}

	result, err := m.gw.CreateChild(parentID, name, profile.Age, profile.Gender, profile.AvatarURL)
	if err != nil {
		return 0, err
	}
	m.log.Info().Int64("id", result.ID).Msg("created child from legacy profile")
	return result.ID, nil
}

// migrateBrushingRecords imports the brushed slots of the legacy per-date
// map. Only brushed entries were ever meaningful in the legacy format.
// Imports skip achievement awards: the legacy counters migrated alongside
// already include whatever these records earned.
func (m *Migrator) migrateBrushingRecords(childID int64) error {
	days := map[string]legacyBrushingDay{}
	if _, err := m.getJSON(kvstore.KeyLegacyBrushingRecords, &days); err != nil {
		return err
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		day := days[date]
		if day.Morning != nil && day.Morning.Brushed {
			if _, err := m.gw.ImportBrushingRecord(childID, date, models.TimeOfDayMorning, day.Morning.Time, true); err != nil {
				return fmt.Errorf("failed to import brushing record %s morning: %w", date, err)
			}
		}
		if day.Evening != nil && day.Evening.Brushed {
			if _, err := m.gw.ImportBrushingRecord(childID, date, models.TimeOfDayEvening, day.Evening.Time, true); err != nil {
				return fmt.Errorf("failed to import brushing record %s evening: %w", date, err)
			}
		}
	}
	return nil
}

// migrateAchievements applies the legacy counters as increments onto the
// child's zero-initialized rows. The legacy map carries a lastUpdated
// timestamp next to the numeric counters; only numbers migrate.
func (m *Migrator) migrateAchievements(childID int64) error {
	counters := map[string]interface{}{}
	if _, err := m.getJSON(kvstore.KeyLegacyAchievements, &counters); err != nil {
		return err
	}

	types := make([]string, 0, len(counters))
	for achievementType := range counters {
		types = append(types, achievementType)
	}
	sort.Strings(types)

	for _, achievementType := range types {
		if achievementType == "lastUpdated" {
			continue
		}
		count, ok := counters[achievementType].(float64)
		if !ok {
			continue
		}
		if err := m.gw.IncrementAchievement(childID, achievementType, int(count)); err != nil {
			return fmt.Errorf("failed to migrate achievement %s: %w", achievementType, err)
		}
	}
	return nil
}

func (m *Migrator) migrateReminders(userID int64) error {
	var reminders legacyReminders
	if _, err := m.getJSON(kvstore.KeyLegacyReminders, &reminders); err != nil {
		return err
	}

	if reminders.BrushMorning != nil {
		r := reminders.BrushMorning
		if err := m.saveReminder(userID, models.ReminderBrushMorning, r,
			models.DefaultMorningReminderTime, models.DefaultMorningReminderMessage); err != nil {
			return err
		}
	}
	if reminders.BrushEvening != nil {
		r := reminders.BrushEvening
		if err := m.saveReminder(userID, models.ReminderBrushEvening, r,
			models.DefaultEveningReminderTime, models.DefaultEveningReminderMessage); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) saveReminder(userID int64, reminderType string, r *legacyReminder, defaultTime, defaultMessage string) error {
	timeHHMM := r.Time
	if timeHHMM == "" {
		timeHHMM = defaultTime
	}
	message := r.Message
	if message == "" {
		message = defaultMessage
	}
	enabled := r.Enabled == nil || *r.Enabled

	if _, err := m.gw.SaveReminder(userID, reminderType, timeHHMM, message, enabled); err != nil {
		return fmt.Errorf("failed to migrate reminder %s: %w", reminderType, err)
	}
	return nil
}

// migrateCaretakerLegacyData moves a caretaker install's schools with
// their nested students and health records. Schools and students are
// reused by name on retry, and health records only load under a student
// created by this run, so a partial failure never duplicates rows.
func (m *Migrator) migrateCaretakerLegacyData() error {
	var auth legacyAuth
	ok, err := m.getJSON(kvstore.KeyLegacyUserAuth, &auth)
	if err != nil {
		return err
	}
	role := normalizeRole(auth.Role)
	if !ok || auth.Username == "" || role != models.RoleCaretaker {
		return nil
	}

	userID, err := m.ensureUser(auth.Username, role)
	if err != nil {
		return err
	}

	schools := []legacySchool{}
	if _, err := m.getJSON(kvstore.KeyLegacySchools, &schools); err != nil {
		return err
	}
	if len(schools) == 0 {
		return nil
	}

	existing, err := m.gw.GetSchoolsByCaretaker(userID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]int64, len(existing))
	for _, school := range existing {
		existingByName[school.Name] = school.ID
	}

	for _, school := range schools {
		schoolID, found := existingByName[school.Name]
		if !found {
			result, err := m.gw.CreateSchool(userID, school.Name, school.Type, school.ActivityDays)
			if err != nil {
				return fmt.Errorf("failed to migrate school %s: %w", school.Name, err)
			}
			schoolID = result.ID
			m.log.Info().Str("school", school.Name).Int64("id", schoolID).Msg("migrated legacy school")
		}

		if err := m.migrateStudents(schoolID, school.Students); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) migrateStudents(schoolID int64, students []legacyStudent) error {
	existing, err := m.gw.GetStudentsBySchool(schoolID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]bool, len(existing))
	for _, student := range existing {
		existingByName[student.Name] = true
	}

	for _, student := range students {
		// A student already present was migrated by an earlier attempt,
		// health records included.
		if existingByName[student.Name] {
			continue
		}

		result, err := m.gw.CreateStudent(schoolID, student.Name, student.Age, student.Grade)
		if err != nil {
			return fmt.Errorf("failed to migrate student %s: %w", student.Name, err)
		}

		for _, record := range student.HealthRecords {
			if err := m.migrateHealthRecord(result.ID, record); err != nil {
				return fmt.Errorf("failed to migrate health record for %s: %w", student.Name, err)
			}
		}
	}
	return nil
}

func (m *Migrator) migrateHealthRecord(studentID int64, record legacyHealthRecord) error {
	recordType := record.Type
	if recordType == "" {
		recordType = "checkup"
	}
	score := record.Score
	if score == 0 {
		score = 5
	}

	details := models.HealthDetails{
		HasBrushed:     record.HasBrushed,
		HasCavity:      record.HasCavity,
		HasHealthyGums: record.HasHealthyGums == nil || *record.HasHealthyGums,
		Score:          score,
		Notes:          record.Notes,
		WarningFlags:   record.WarningFlags,
		NeedsReferral:  record.NeedsReferral,
		ReferralNotes:  record.ReferralNotes,
		Resolved:       record.Resolved,
	}
	_, err := m.gw.CreateHealthRecord(studentID, record.Date, recordType, details)
	return err
}

// migrateChildLegacyData moves a child-role install's data: account,
// profile blob, achievement counters, the hour/minute brush alarms and
// the stored healthy-snacks score. The account's own child record
// anchors the per-child rows.
func (m *Migrator) migrateChildLegacyData() error {
	var auth legacyAuth
	ok, err := m.getJSON(kvstore.KeyLegacyUserAuth, &auth)
	if err != nil {
		return err
	}
	if !ok || auth.Username == "" || normalizeRole(auth.Role) != models.RoleChild {
		return nil
	}

	userID, err := m.ensureUser(auth.Username, models.RoleChild)
	if err != nil {
		return err
	}

	if err := m.mergeProfile(userID, kvstore.KeyLegacyChildProfile); err != nil {
		return err
	}

	childID, err := m.ensureChild(userID)
	if err != nil {
		return err
	}

	if err := m.migrateAchievements(childID); err != nil {
		return err
	}
	if err := m.migrateBrushAlarms(userID); err != nil {
		return err
	}
	return m.migrateSnackScore(childID)
}

// migrateBrushAlarms converts the legacy alarm pair into the two
// brushing reminders.
func (m *Migrator) migrateBrushAlarms(userID int64) error {
	var alarms legacyAlarms
	if _, err := m.getJSON(kvstore.KeyLegacyBrushAlarms, &alarms); err != nil {
		return err
	}

	if alarms.Morning != nil {
		if err := m.saveAlarm(userID, models.ReminderBrushMorning, alarms.Morning,
			models.DefaultMorningReminderMessage); err != nil {
			return err
		}
	}
	if alarms.Evening != nil {
		if err := m.saveAlarm(userID, models.ReminderBrushEvening, alarms.Evening,
			models.DefaultEveningReminderMessage); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) saveAlarm(userID int64, reminderType string, alarm *legacyAlarm, message string) error {
	timeHHMM := fmt.Sprintf("%02d:%02d", alarm.Hour, alarm.Minute)
	enabled := alarm.Enabled == nil || *alarm.Enabled

	if _, err := m.gw.SaveReminder(userID, reminderType, timeHHMM, message, enabled); err != nil {
		return fmt.Errorf("failed to migrate alarm %s: %w", reminderType, err)
	}
	return nil
}

// migrateSnackScore moves the stored healthy-snacks game result. The
// score imports without bumping the matching achievement; the legacy
// counters already carry it.
func (m *Migrator) migrateSnackScore(childID int64) error {
	raw, ok, err := m.store.Get(kvstore.KeyLegacySnackScore)
	if err != nil || !ok {
		return err
	}

	score, err := strconv.Atoi(raw)
	if err != nil {
		m.log.Warn().Str("value", raw).Msg("skipping unreadable legacy snack score")
		return nil
	}

	if _, err := m.gw.ImportGameScore(childID, models.AchievementHealthySnacks, score); err != nil {
		return fmt.Errorf("failed to migrate snack score: %w", err)
	}
	return nil
}
