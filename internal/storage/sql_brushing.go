package storage

import (
	"database/sql"
	"fmt"

	"dentaltrack/internal/models"
)

// SaveBrushingRecord upserts the record for (child, date, time of day).
// The existence check and the following write are two statements; with a
// single writer, which is the deployment model, the pair is safe.
func (b *SQLBackend) SaveBrushingRecord(childID int64, date, timeOfDay, durationMinutes string, brushed bool) (int64, bool, error) {
	existing, err := b.GetBrushingRecord(childID, date, timeOfDay)
	if err != nil {
		return 0, false, err
	}

	if existing != nil {
		query := `
			UPDATE brushing_records
			SET duration_minutes = ?, brushed = ?
			WHERE id = ?
		`
		if _, err := b.db.Exec(query, nullString(durationMinutes), brushed, existing.ID); err != nil {
			return 0, false, fmt.Errorf("failed to update brushing record: %w", err)
		}
		return existing.ID, false, nil
	}

	query := `
		INSERT INTO brushing_records (child_id, date, time_of_day, duration_minutes, brushed)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := b.db.ExecReturningID(query, childID, date, timeOfDay, nullString(durationMinutes), brushed)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create brushing record: %w", err)
	}
	return id, true, nil
}

// GetBrushingRecord retrieves the record for (child, date, time of day),
// or nil if none exists.
func (b *SQLBackend) GetBrushingRecord(childID int64, date, timeOfDay string) (*models.BrushingRecord, error) {
	query := `
		SELECT id, child_id, date, time_of_day, duration_minutes, brushed
		FROM brushing_records
		WHERE child_id = ? AND date = ? AND time_of_day = ?
	`
	record, err := scanBrushingRecord(b.db.QueryRow(query, childID, date, timeOfDay).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brushing record: %w", err)
	}
	return record, nil
}

// ListBrushingRecords retrieves a child's records, optionally bounded by
// inclusive start/end dates (empty string = unbounded). Newest date first,
// time of day ascending within a date.
func (b *SQLBackend) ListBrushingRecords(childID int64, startDate, endDate string) ([]models.BrushingRecord, error) {
	query := `
		SELECT id, child_id, date, time_of_day, duration_minutes, brushed
		FROM brushing_records
		WHERE child_id = ?
	`
	args := []interface{}{childID}

	if startDate != "" {
		query += " AND date >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND date <= ?"
		args = append(args, endDate)
	}
	query += " ORDER BY date DESC, time_of_day ASC"

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query brushing records: %w", err)
	}
	defer rows.Close()

	records := []models.BrushingRecord{}
	for rows.Next() {
		record, err := scanBrushingRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brushing record: %w", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

func scanBrushingRecord(scan func(...interface{}) error) (*models.BrushingRecord, error) {
	record := &models.BrushingRecord{}
	var duration sql.NullString

	if err := scan(&record.ID, &record.ChildID, &record.Date, &record.TimeOfDay, &duration, &record.Brushed); err != nil {
		return nil, err
	}

	record.DurationMinutes = duration.String
	return record, nil
}
