package models

import "time"

// User roles. Legacy installs stored the caretaker role as "teacher";
// the migration engine normalizes it on import.
const (
	RoleChild     = "child"
	RoleParent    = "parent"
	RoleCaretaker = "caretaker"
)

// User represents an account in the system. Usernames are phone numbers
// entered at registration and are unique. ProfileData is an opaque JSON
// blob owned by the UI layer (parent profile, child profile, PIN hash).
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	ProfileData string    `json:"profile_data,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
