package storage

import (
	"sort"

	"dentaltrack/internal/kvstore"
	"dentaltrack/internal/models"
)

// SaveBrushingRecord upserts the record for (child, date, time of day).
func (b *KVBackend) SaveBrushingRecord(childID int64, date, timeOfDay, durationMinutes string, brushed bool) (int64, bool, error) {
	records, err := getCollection[models.BrushingRecord](b.store, kvstore.KeyBrushingRecords)
	if err != nil {
		return 0, false, err
	}

	for i := range records {
		if records[i].ChildID == childID && records[i].Date == date && records[i].TimeOfDay == timeOfDay {
			records[i].DurationMinutes = durationMinutes
			records[i].Brushed = brushed
			if err := putCollection(b.store, kvstore.KeyBrushingRecords, records); err != nil {
				return 0, false, err
			}
			return records[i].ID, false, nil
		}
	}

	id, err := b.nextID()
	if err != nil {
		return 0, false, err
	}

	records = append(records, models.BrushingRecord{
		ID:              id,
		ChildID:         childID,
		Date:            date,
		TimeOfDay:       timeOfDay,
		DurationMinutes: durationMinutes,
		Brushed:         brushed,
	})
	if err := putCollection(b.store, kvstore.KeyBrushingRecords, records); err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// GetBrushingRecord retrieves the record for (child, date, time of day),
// or nil if none exists.
func (b *KVBackend) GetBrushingRecord(childID int64, date, timeOfDay string) (*models.BrushingRecord, error) {
	records, err := getCollection[models.BrushingRecord](b.store, kvstore.KeyBrushingRecords)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ChildID == childID && records[i].Date == date && records[i].TimeOfDay == timeOfDay {
			return &records[i], nil
		}
	}
	return nil, nil
}

// ListBrushingRecords retrieves a child's records within the optional
// inclusive date bounds, newest date first, time of day ascending within
// a date (same ordering as the relational adapter).
func (b *KVBackend) ListBrushingRecords(childID int64, startDate, endDate string) ([]models.BrushingRecord, error) {
	records, err := getCollection[models.BrushingRecord](b.store, kvstore.KeyBrushingRecords)
	if err != nil {
		return nil, err
	}

	matched := []models.BrushingRecord{}
	for _, record := range records {
		if record.ChildID != childID {
			continue
		}
		if startDate != "" && record.Date < startDate {
			continue
		}
		if endDate != "" && record.Date > endDate {
			continue
		}
		matched = append(matched, record)
	}

	// YYYY-MM-DD dates sort correctly as strings
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date > matched[j].Date
		}
		return matched[i].TimeOfDay < matched[j].TimeOfDay
	})

	return matched, nil
}
