package models

// Times of day a brushing can be reported for.
const (
	TimeOfDayMorning = "morning"
	TimeOfDayEvening = "evening"
)

// BrushingRecord is one reported brushing for a child. At most one record
// exists per (child, date, time of day); repeat saves update in place.
// Date is a calendar day formatted YYYY-MM-DD. DurationMinutes is kept as
// the free-form string the report form collects.
type BrushingRecord struct {
	ID              int64  `json:"id"`
	ChildID         int64  `json:"child_id"`
	Date            string `json:"date"`
	TimeOfDay       string `json:"time_of_day"`
	DurationMinutes string `json:"duration_minutes"`
	Brushed         bool   `json:"brushed"`
}

// BrushingSlot is one half of a calendar day in the shape the dashboard
// calendar consumes.
type BrushingSlot struct {
	Brushed bool   `json:"brushed"`
	Time    string `json:"time"`
}

// BrushingDay pairs the morning and evening slots for one date.
type BrushingDay struct {
	Morning BrushingSlot `json:"morning"`
	Evening BrushingSlot `json:"evening"`
}
