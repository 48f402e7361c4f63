package storage

import (
	"fmt"

	"dentaltrack/internal/models"
)

// SaveSurveyResponse appends a questionnaire submission.
func (b *SQLBackend) SaveSurveyResponse(response models.SurveyResponse) (int64, error) {
	query := `
		INSERT INTO survey_responses (
			parent_id, child_name, timestamp, consent, respondent, grade,
			brushing_frequency, snack_frequency, toothpaste_usage,
			brushing_help, brushing_helper, brushing_check,
			brushing_checker, snack_limit, snack_limiter
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := b.db.ExecReturningID(query,
		response.ParentID,
		nullString(response.ChildName),
		response.Timestamp,
		nullString(response.Consent),
		nullString(response.Respondent),
		nullString(response.Grade),
		nullString(response.BrushingFrequency),
		nullString(response.SnackFrequency),
		nullString(response.ToothpasteUsage),
		nullString(response.BrushingHelp),
		nullString(response.BrushingHelper),
		nullString(response.BrushingCheck),
		nullString(response.BrushingChecker),
		nullString(response.SnackLimit),
		nullString(response.SnackLimiter),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save survey response: %w", err)
	}
	return id, nil
}

// GetSurveyResponsesByParent retrieves every submission recorded under a
// parent identifier, oldest first.
func (b *SQLBackend) GetSurveyResponsesByParent(parentID string) ([]models.SurveyResponse, error) {
	query := `
		SELECT id, parent_id, COALESCE(child_name, ''), timestamp,
			COALESCE(consent, ''), COALESCE(respondent, ''), COALESCE(grade, ''),
			COALESCE(brushing_frequency, ''), COALESCE(snack_frequency, ''),
			COALESCE(toothpaste_usage, ''), COALESCE(brushing_help, ''),
			COALESCE(brushing_helper, ''), COALESCE(brushing_check, ''),
			COALESCE(brushing_checker, ''), COALESCE(snack_limit, ''),
			COALESCE(snack_limiter, '')
		FROM survey_responses
		WHERE parent_id = ?
		ORDER BY id ASC
	`
	rows, err := b.db.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query survey responses: %w", err)
	}
	defer rows.Close()

	responses := []models.SurveyResponse{}
	for rows.Next() {
		r := models.SurveyResponse{}
		err := rows.Scan(&r.ID, &r.ParentID, &r.ChildName, &r.Timestamp,
			&r.Consent, &r.Respondent, &r.Grade,
			&r.BrushingFrequency, &r.SnackFrequency, &r.ToothpasteUsage,
			&r.BrushingHelp, &r.BrushingHelper, &r.BrushingCheck,
			&r.BrushingChecker, &r.SnackLimit, &r.SnackLimiter)
		if err != nil {
			return nil, fmt.Errorf("failed to scan survey response: %w", err)
		}
		responses = append(responses, r)
	}

	return responses, rows.Err()
}
