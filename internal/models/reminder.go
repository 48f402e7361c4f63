package models

// Reminder types. The two brushing reminders are the ones legacy installs
// carried; other types are free-form.
const (
	ReminderBrushMorning = "brushMorning"
	ReminderBrushEvening = "brushEvening"
)

// Default reminder times and Persian messages, used when a legacy reminder
// is migrated without them.
const (
	DefaultMorningReminderTime    = "07:30"
	DefaultEveningReminderTime    = "20:00"
	DefaultMorningReminderMessage = "یادآوری مسواک صبح"
	DefaultEveningReminderMessage = "یادآوری مسواک شب"
)

// Reminder is a scheduled notification for a user. At most one reminder
// exists per (user, type); saves upsert. Time is HH:MM.
type Reminder struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Type    string `json:"type"`
	Time    string `json:"time"`
	Message string `json:"message"`
	Enabled bool   `json:"enabled"`
}
