package storage

import (
	"fmt"

	"dentaltrack/internal/kvstore"
	"dentaltrack/internal/models"
)

// CreateSchool appends a school owned by a caretaker.
func (b *KVBackend) CreateSchool(caretakerID int64, name, schoolType string, activityDays []string) (int64, error) {
	schools, err := getCollection[models.School](b.store, kvstore.KeySchools)
	if err != nil {
		return 0, err
	}

	id, err := b.nextID()
	if err != nil {
		return 0, err
	}

	schools = append(schools, models.School{
		ID:           id,
		CaretakerID:  caretakerID,
		Name:         name,
		Type:         schoolType,
		ActivityDays: activityDays,
	})
	if err := putCollection(b.store, kvstore.KeySchools, schools); err != nil {
		return 0, err
	}
	return id, nil
}

// GetSchoolsByCaretaker retrieves all schools a caretaker manages.
func (b *KVBackend) GetSchoolsByCaretaker(caretakerID int64) ([]models.School, error) {
	schools, err := getCollection[models.School](b.store, kvstore.KeySchools)
	if err != nil {
		return nil, err
	}

	matched := []models.School{}
	for _, school := range schools {
		if school.CaretakerID == caretakerID {
			matched = append(matched, school)
		}
	}
	return matched, nil
}

// UpdateSchool updates a school's fields.
func (b *KVBackend) UpdateSchool(id int64, name, schoolType string, activityDays []string) error {
	schools, err := getCollection[models.School](b.store, kvstore.KeySchools)
	if err != nil {
		return err
	}

	for i := range schools {
		if schools[i].ID == id {
			schools[i].Name = name
			schools[i].Type = schoolType
			schools[i].ActivityDays = activityDays
			return putCollection(b.store, kvstore.KeySchools, schools)
		}
	}
	return fmt.Errorf("school %d not found", id)
}

// DeleteSchool removes a school, its students and their health records.
func (b *KVBackend) DeleteSchool(id int64) error {
	schools, err := getCollection[models.School](b.store, kvstore.KeySchools)
	if err != nil {
		return err
	}

	kept := schools[:0]
	for _, school := range schools {
		if school.ID != id {
			kept = append(kept, school)
		}
	}
	if err := putCollection(b.store, kvstore.KeySchools, kept); err != nil {
		return err
	}

	students, err := b.GetStudentsBySchool(id)
	if err != nil {
		return err
	}
	for _, student := range students {
		if err := b.DeleteStudent(student.ID); err != nil {
			return err
		}
	}
	return nil
}

// CreateStudent appends a student to a school.
func (b *KVBackend) CreateStudent(schoolID int64, name string, age int, grade string) (int64, error) {
	students, err := getCollection[models.Student](b.store, kvstore.KeyStudents)
	if err != nil {
		return 0, err
	}

	id, err := b.nextID()
	if err != nil {
		return 0, err
	}

	students = append(students, models.Student{
		ID:       id,
		SchoolID: schoolID,
		Name:     name,
		Age:      age,
		Grade:    grade,
	})
	if err := putCollection(b.store, kvstore.KeyStudents, students); err != nil {
		return 0, err
	}
	return id, nil
}

// GetStudentsBySchool retrieves all students of a school.
func (b *KVBackend) GetStudentsBySchool(schoolID int64) ([]models.Student, error) {
	students, err := getCollection[models.Student](b.store, kvstore.KeyStudents)
	if err != nil {
		return nil, err
	}

	matched := []models.Student{}
	for _, student := range students {
		if student.SchoolID == schoolID {
			matched = append(matched, student)
		}
	}
	return matched, nil
}

// DeleteStudent removes a student and its health records.
func (b *KVBackend) DeleteStudent(id int64) error {
	students, err := getCollection[models.Student](b.store, kvstore.KeyStudents)
	if err != nil {
		return err
	}

	kept := students[:0]
	for _, student := range students {
		if student.ID != id {
			kept = append(kept, student)
		}
	}
	if err := putCollection(b.store, kvstore.KeyStudents, kept); err != nil {
		return err
	}

	return dropByChild[models.HealthRecord](b.store, kvstore.KeyHealthRecords, id, func(r models.HealthRecord) int64 { return r.StudentID })
}

// CreateHealthRecord appends a dated checkup entry for a student.
func (b *KVBackend) CreateHealthRecord(studentID int64, date, recordType string, details models.HealthDetails) (int64, error) {
	records, err := getCollection[models.HealthRecord](b.store, kvstore.KeyHealthRecords)
	if err != nil {
		return 0, err
	}

	id, err := b.nextID()
	if err != nil {
		return 0, err
	}

	records = append(records, models.HealthRecord{
		ID:         id,
		StudentID:  studentID,
		Date:       date,
		RecordType: recordType,
		Details:    details,
	})
	if err := putCollection(b.store, kvstore.KeyHealthRecords, records); err != nil {
		return 0, err
	}
	return id, nil
}

// GetHealthRecordsByStudent retrieves all health records for a student.
func (b *KVBackend) GetHealthRecordsByStudent(studentID int64) ([]models.HealthRecord, error) {
	records, err := getCollection[models.HealthRecord](b.store, kvstore.KeyHealthRecords)
	if err != nil {
		return nil, err
	}

	matched := []models.HealthRecord{}
	for _, record := range records {
		if record.StudentID == studentID {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

// SetHealthRecordResolved toggles the resolved flag of a record.
func (b *KVBackend) SetHealthRecordResolved(id int64, resolved bool) error {
	records, err := getCollection[models.HealthRecord](b.store, kvstore.KeyHealthRecords)
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == id {
			records[i].Details.Resolved = resolved
			return putCollection(b.store, kvstore.KeyHealthRecords, records)
		}
	}
	return fmt.Errorf("health record %d not found", id)
}
