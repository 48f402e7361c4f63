package models

// SurveyResponse is one submission of the parent oral-health
// questionnaire. ParentID is a free-form identifier: submissions are
// collected from parents who may not have an account, so it is not a
// foreign key. Timestamp is the submission time as the client sent it.
type SurveyResponse struct {
	ID                int64  `json:"id"`
	ParentID          string `json:"parent_id"`
	ChildName         string `json:"child_name,omitempty"`
	Timestamp         string `json:"timestamp"`
	Consent           string `json:"consent,omitempty"`
	Respondent        string `json:"respondent,omitempty"`
	Grade             string `json:"grade,omitempty"`
	BrushingFrequency string `json:"brushing_frequency,omitempty"`
	SnackFrequency    string `json:"snack_frequency,omitempty"`
	ToothpasteUsage   string `json:"toothpaste_usage,omitempty"`
	BrushingHelp      string `json:"brushing_help,omitempty"`
	BrushingHelper    string `json:"brushing_helper,omitempty"`
	BrushingCheck     string `json:"brushing_check,omitempty"`
	BrushingChecker   string `json:"brushing_checker,omitempty"`
	SnackLimit        string `json:"snack_limit,omitempty"`
	SnackLimiter      string `json:"snack_limiter,omitempty"`
}
