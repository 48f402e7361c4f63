package storage

import (
	"dentaltrack/internal/kvstore"
	"dentaltrack/internal/models"
)

// SaveSurveyResponse appends a questionnaire submission to the survey
// collection.
func (b *KVBackend) SaveSurveyResponse(response models.SurveyResponse) (int64, error) {
	responses, err := getCollection[models.SurveyResponse](b.store, kvstore.KeySurveyResponses)
	if err != nil {
		return 0, err
	}

	id, err := b.nextID()
	if err != nil {
		return 0, err
	}
	response.ID = id

	responses = append(responses, response)
	if err := putCollection(b.store, kvstore.KeySurveyResponses, responses); err != nil {
		return 0, err
	}
	return id, nil
}

// GetSurveyResponsesByParent retrieves every submission recorded under a
// parent identifier, oldest first.
func (b *KVBackend) GetSurveyResponsesByParent(parentID string) ([]models.SurveyResponse, error) {
	responses, err := getCollection[models.SurveyResponse](b.store, kvstore.KeySurveyResponses)
	if err != nil {
		return nil, err
	}

	matched := []models.SurveyResponse{}
	for _, response := range responses {
		if response.ParentID == parentID {
			matched = append(matched, response)
		}
	}
	return matched, nil
}
