package models

// School types.
const (
	SchoolTypeBoys  = "boys"
	SchoolTypeGirls = "girls"
)

// School is a school managed by a caretaker. ActivityDays holds the
// weekdays the caretaker visits; it is stored as a JSON array.
type School struct {
	ID           int64    `json:"id"`
	CaretakerID  int64    `json:"caretaker_id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	ActivityDays []string `json:"activity_days"`
}

// Student belongs to a school and is cascade-deleted with it.
type Student struct {
	ID       int64  `json:"id"`
	SchoolID int64  `json:"school_id"`
	Name     string `json:"name"`
	Age      int    `json:"age,omitempty"`
	Grade    string `json:"grade,omitempty"`
}

// HealthDetails is the structured payload of a health record, stored as a
// JSON column.
type HealthDetails struct {
	HasBrushed     bool            `json:"hasBrushed"`
	HasCavity      bool            `json:"hasCavity"`
	HasHealthyGums bool            `json:"hasHealthyGums"`
	Score          int             `json:"score,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	WarningFlags   map[string]bool `json:"warningFlags,omitempty"`
	NeedsReferral  bool            `json:"needsReferral"`
	ReferralNotes  string          `json:"referralNotes,omitempty"`
	Resolved       bool            `json:"resolved"`
}

// HealthRecord is one dated checkup entry for a student, cascade-deleted
// with the student.
type HealthRecord struct {
	ID         int64         `json:"id"`
	StudentID  int64         `json:"student_id"`
	Date       string        `json:"date"`
	RecordType string        `json:"record_type"`
	Details    HealthDetails `json:"details"`
}
