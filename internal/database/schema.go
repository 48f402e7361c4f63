package database

import "fmt"

// EnsureSchema creates every table the application uses. It is safe to call
// on every startup: tables are created only if missing, existing tables are
// never dropped or recreated, and columns added after the initial release
// are bolted on additively.
func (db *DB) EnsureSchema() error {
	for _, stmt := range schemaStatements(db.Dialect) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	// users.profile_data arrived after the first release; installs that
	// created the table before then need it added in place.
	if err := db.ensureColumn("users", "profile_data", "TEXT"); err != nil {
		return fmt.Errorf("failed to upgrade users table: %w", err)
	}

	return nil
}

// columnExists inspects an existing table for a column.
func (db *DB) columnExists(table, column string) (bool, error) {
	var count int
	err := db.QueryRow(db.Dialect.HasColumnQuery(), table, column).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ensureColumn adds a column to an existing table if it is missing.
func (db *DB) ensureColumn(table, column, definition string) error {
	exists, err := db.columnExists(table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}

// schemaStatements returns the CREATE TABLE statements for all entity
// tables, in foreign-key dependency order.
func schemaStatements(d Dialect) []string {
	pk := d.AutoIncrementPK()
	boolFalse := d.BoolValue(false)
	boolTrue := d.BoolValue(true)

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			username VARCHAR(255) NOT NULL UNIQUE,
			role VARCHAR(32) NOT NULL CHECK(role IN ('child', 'parent', 'caretaker')),
			profile_data TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS children (
			id %s,
			parent_id BIGINT,
			name VARCHAR(255),
			age INTEGER,
			gender VARCHAR(32),
			avatar_url TEXT,
			FOREIGN KEY (parent_id) REFERENCES users(id)
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS brushing_records (
			id %s,
			child_id BIGINT NOT NULL,
			date VARCHAR(10) NOT NULL,
			time_of_day VARCHAR(16) NOT NULL CHECK(time_of_day IN ('morning', 'evening')),
			duration_minutes VARCHAR(32),
			brushed BOOLEAN DEFAULT %s,
			FOREIGN KEY (child_id) REFERENCES children(id) ON DELETE CASCADE,
			UNIQUE(child_id, date, time_of_day)
		)`, pk, boolFalse),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS reminders (
			id %s,
			user_id BIGINT NOT NULL,
			type VARCHAR(64) NOT NULL,
			time VARCHAR(5) NOT NULL,
			message TEXT,
			enabled BOOLEAN DEFAULT %s,
			FOREIGN KEY (user_id) REFERENCES users(id),
			UNIQUE(user_id, type)
		)`, pk, boolTrue),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS achievements (
			id %s,
			child_id BIGINT NOT NULL,
			type VARCHAR(64) NOT NULL,
			count INTEGER DEFAULT 0,
			last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (child_id) REFERENCES children(id) ON DELETE CASCADE,
			UNIQUE(child_id, type)
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS game_scores (
			id %s,
			child_id BIGINT NOT NULL,
			game_type VARCHAR(64) NOT NULL,
			score INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (child_id) REFERENCES children(id) ON DELETE CASCADE,
			UNIQUE(child_id, game_type)
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS video_progress (
			id %s,
			child_id BIGINT NOT NULL,
			video_id VARCHAR(255) NOT NULL,
			progress REAL DEFAULT 0,
			completed BOOLEAN DEFAULT %s,
			last_watched TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (child_id) REFERENCES children(id) ON DELETE CASCADE,
			UNIQUE(child_id, video_id)
		)`, pk, boolFalse),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS schools (
			id %s,
			caretaker_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(32),
			activity_days TEXT,
			FOREIGN KEY (caretaker_id) REFERENCES users(id)
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS students (
			id %s,
			school_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			age INTEGER,
			grade VARCHAR(32),
			FOREIGN KEY (school_id) REFERENCES schools(id) ON DELETE CASCADE
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS health_records (
			id %s,
			student_id BIGINT NOT NULL,
			date VARCHAR(10) NOT NULL,
			record_type VARCHAR(64) NOT NULL,
			details TEXT,
			FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE
		)`, pk),

		// parent_id is a free-form identifier, not a users reference:
		// survey submissions come from parents without accounts too.
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS survey_responses (
			id %s,
			parent_id VARCHAR(255) NOT NULL,
			child_name VARCHAR(255),
			timestamp VARCHAR(64) NOT NULL,
			consent VARCHAR(64),
			respondent VARCHAR(64),
			grade VARCHAR(32),
			brushing_frequency VARCHAR(64),
			snack_frequency VARCHAR(64),
			toothpaste_usage VARCHAR(64),
			brushing_help VARCHAR(64),
			brushing_helper VARCHAR(64),
			brushing_check VARCHAR(64),
			brushing_checker VARCHAR(64),
			snack_limit VARCHAR(64),
			snack_limiter VARCHAR(64)
		)`, pk),
	}
}
