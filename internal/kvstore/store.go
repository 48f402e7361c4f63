package kvstore

// Storage namespace keys. The db_* collections mirror the relational
// tables one-to-one; the remaining keys are legacy single-value entries
// written by installs that predate the relational schema.
const (
	KeyUsers           = "db_users"
	KeyChildren        = "db_children"
	KeyBrushingRecords = "db_brushing_records"
	KeyReminders       = "db_reminders"
	KeyAchievements    = "db_achievements"
	KeyGameScores      = "db_game_scores"
	KeyVideoProgress   = "db_video_progress"
	KeySchools         = "db_schools"
	KeyStudents        = "db_students"
	KeyHealthRecords   = "db_health_records"
	KeySequence        = "db_seq"

	// Survey submissions were always stored under this unprefixed key.
	KeySurveyResponses = "surveyResponses"

	KeyLegacyUserAuth        = "userAuth"
	KeyLegacyChildName       = "childName"
	KeyLegacyChildProfile    = "childProfile"
	KeyLegacyParentProfile   = "parentProfile"
	KeyLegacyAchievements    = "childAchievements"
	KeyLegacyBrushingRecords = "parentBrushingRecord"
	KeyLegacyReminders       = "parentReminders"
	KeyLegacyBrushAlarms     = "brushAlarms"
	KeyLegacySnackScore      = "healthySnackScore"
	KeyLegacySchools         = "caretakerSchools"

	KeyMigrationCompleted          = "dbMigrationCompleted"
	KeyParentMigrationCompleted    = "dbParentMigrationCompleted"
	KeyCaretakerMigrationCompleted = "dbCaretakerMigrationCompleted"
	KeyChildMigrationCompleted     = "dbChildMigrationCompleted"
	KeyMigrationLedger             = "db_migration_ledger"
)

// Store is a durable string key-value store used whenever the relational
// database is unavailable, and as the home of legacy pre-migration data.
// Get reports whether the key was present; a missing key is not an error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}
