package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"dentaltrack/internal/models"
)

// CreateSchool inserts a school owned by a caretaker.
func (b *SQLBackend) CreateSchool(caretakerID int64, name, schoolType string, activityDays []string) (int64, error) {
	days, err := json.Marshal(activityDays)
	if err != nil {
		return 0, fmt.Errorf("failed to encode activity days: %w", err)
	}

	query := `
		INSERT INTO schools (caretaker_id, name, type, activity_days)
		VALUES (?, ?, ?, ?)
	`
	id, err := b.db.ExecReturningID(query, caretakerID, name, nullString(schoolType), string(days))
	if err != nil {
		return 0, fmt.Errorf("failed to create school: %w", err)
	}
	return id, nil
}

// GetSchoolsByCaretaker retrieves all schools a caretaker manages.
func (b *SQLBackend) GetSchoolsByCaretaker(caretakerID int64) ([]models.School, error) {
	query := `
		SELECT id, caretaker_id, name, type, activity_days
		FROM schools
		WHERE caretaker_id = ?
		ORDER BY id ASC
	`
	rows, err := b.db.Query(query, caretakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schools: %w", err)
	}
	defer rows.Close()

	schools := []models.School{}
	for rows.Next() {
		school := models.School{}
		var schoolType, days sql.NullString
		if err := rows.Scan(&school.ID, &school.CaretakerID, &school.Name, &schoolType, &days); err != nil {
			return nil, fmt.Errorf("failed to scan school: %w", err)
		}
		school.Type = schoolType.String
		if days.String != "" {
			if err := json.Unmarshal([]byte(days.String), &school.ActivityDays); err != nil {
				return nil, fmt.Errorf("failed to decode activity days: %w", err)
			}
		}
		schools = append(schools, school)
	}

	return schools, rows.Err()
}

// UpdateSchool updates a school's fields.
func (b *SQLBackend) UpdateSchool(id int64, name, schoolType string, activityDays []string) error {
	days, err := json.Marshal(activityDays)
	if err != nil {
		return fmt.Errorf("failed to encode activity days: %w", err)
	}

	query := `
		UPDATE schools
		SET name = ?, type = ?, activity_days = ?
		WHERE id = ?
	`
	if _, err := b.db.Exec(query, name, nullString(schoolType), string(days), id); err != nil {
		return fmt.Errorf("failed to update school: %w", err)
	}
	return nil
}

// DeleteSchool removes a school; its students and their health records go
// with it through the schema's cascade rules.
func (b *SQLBackend) DeleteSchool(id int64) error {
	if _, err := b.db.Exec("DELETE FROM schools WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete school: %w", err)
	}
	return nil
}

// CreateStudent inserts a student into a school.
func (b *SQLBackend) CreateStudent(schoolID int64, name string, age int, grade string) (int64, error) {
	query := "INSERT INTO students (school_id, name, age, grade) VALUES (?, ?, ?, ?)"
	id, err := b.db.ExecReturningID(query, schoolID, name, nullInt(age), nullString(grade))
	if err != nil {
		return 0, fmt.Errorf("failed to create student: %w", err)
	}
	return id, nil
}

// GetStudentsBySchool retrieves all students of a school.
func (b *SQLBackend) GetStudentsBySchool(schoolID int64) ([]models.Student, error) {
	query := `
		SELECT id, school_id, name, age, grade
		FROM students
		WHERE school_id = ?
		ORDER BY id ASC
	`
	rows, err := b.db.Query(query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		student := models.Student{}
		var age sql.NullInt64
		var grade sql.NullString
		if err := rows.Scan(&student.ID, &student.SchoolID, &student.Name, &age, &grade); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		student.Age = int(age.Int64)
		student.Grade = grade.String
		students = append(students, student)
	}

	return students, rows.Err()
}

// DeleteStudent removes a student; health records cascade.
func (b *SQLBackend) DeleteStudent(id int64) error {
	if _, err := b.db.Exec("DELETE FROM students WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}

// CreateHealthRecord inserts a dated checkup entry for a student.
func (b *SQLBackend) CreateHealthRecord(studentID int64, date, recordType string, details models.HealthDetails) (int64, error) {
	payload, err := json.Marshal(details)
	if err != nil {
		return 0, fmt.Errorf("failed to encode health details: %w", err)
	}

	query := `
		INSERT INTO health_records (student_id, date, record_type, details)
		VALUES (?, ?, ?, ?)
	`
	id, err := b.db.ExecReturningID(query, studentID, date, recordType, string(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create health record: %w", err)
	}
	return id, nil
}

// GetHealthRecordsByStudent retrieves all health records for a student.
func (b *SQLBackend) GetHealthRecordsByStudent(studentID int64) ([]models.HealthRecord, error) {
	query := `
		SELECT id, student_id, date, record_type, details
		FROM health_records
		WHERE student_id = ?
		ORDER BY date DESC, id DESC
	`
	rows, err := b.db.Query(query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query health records: %w", err)
	}
	defer rows.Close()

	records := []models.HealthRecord{}
	for rows.Next() {
		record := models.HealthRecord{}
		var details sql.NullString
		if err := rows.Scan(&record.ID, &record.StudentID, &record.Date, &record.RecordType, &details); err != nil {
			return nil, fmt.Errorf("failed to scan health record: %w", err)
		}
		if details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &record.Details); err != nil {
				return nil, fmt.Errorf("failed to decode health details: %w", err)
			}
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// SetHealthRecordResolved toggles the resolved flag inside a record's
// details payload.
func (b *SQLBackend) SetHealthRecordResolved(id int64, resolved bool) error {
	var details sql.NullString
	query := "SELECT details FROM health_records WHERE id = ?"
	err := b.db.QueryRow(query, id).Scan(&details)
	if err == sql.ErrNoRows {
		return fmt.Errorf("health record %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to get health record: %w", err)
	}

	var payload models.HealthDetails
	if details.String != "" {
		if err := json.Unmarshal([]byte(details.String), &payload); err != nil {
			return fmt.Errorf("failed to decode health details: %w", err)
		}
	}
	payload.Resolved = resolved

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode health details: %w", err)
	}

	if _, err := b.db.Exec("UPDATE health_records SET details = ? WHERE id = ?", string(encoded), id); err != nil {
		return fmt.Errorf("failed to update health record: %w", err)
	}
	return nil
}
