package storage

import (
	"database/sql"
	"fmt"

	"dentaltrack/internal/models"
)

// SaveGameScore upserts the latest score for (child, game type).
func (b *SQLBackend) SaveGameScore(childID int64, gameType string, score int) (int64, error) {
	var existingID int64
	query := "SELECT id FROM game_scores WHERE child_id = ? AND game_type = ?"
	err := b.db.QueryRow(query, childID, gameType).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to check game score: %w", err)
	}

	if err == nil {
		update := `
			UPDATE game_scores
			SET score = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`
		if _, err := b.db.Exec(update, score, existingID); err != nil {
			return 0, fmt.Errorf("failed to update game score: %w", err)
		}
		return existingID, nil
	}

	insert := "INSERT INTO game_scores (child_id, game_type, score) VALUES (?, ?, ?)"
	id, err := b.db.ExecReturningID(insert, childID, gameType, score)
	if err != nil {
		return 0, fmt.Errorf("failed to create game score: %w", err)
	}
	return id, nil
}

// GetGameScoresByChild retrieves all game scores for a child.
func (b *SQLBackend) GetGameScoresByChild(childID int64) ([]models.GameScore, error) {
	query := `
		SELECT id, child_id, game_type, score, created_at, updated_at
		FROM game_scores
		WHERE child_id = ?
		ORDER BY id ASC
	`
	rows, err := b.db.Query(query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game scores: %w", err)
	}
	defer rows.Close()

	scores := []models.GameScore{}
	for rows.Next() {
		gameScore := models.GameScore{}
		if err := rows.Scan(&gameScore.ID, &gameScore.ChildID, &gameScore.GameType, &gameScore.Score, &gameScore.CreatedAt, &gameScore.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game score: %w", err)
		}
		scores = append(scores, gameScore)
	}

	return scores, rows.Err()
}

// SaveVideoProgress upserts the watch progress for (child, video).
func (b *SQLBackend) SaveVideoProgress(childID int64, videoID string, progress float64, completed bool) (int64, error) {
	var existingID int64
	query := "SELECT id FROM video_progress WHERE child_id = ? AND video_id = ?"
	err := b.db.QueryRow(query, childID, videoID).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to check video progress: %w", err)
	}

	if err == nil {
		update := `
			UPDATE video_progress
			SET progress = ?, completed = ?, last_watched = CURRENT_TIMESTAMP
			WHERE id = ?
		`
		if _, err := b.db.Exec(update, progress, completed, existingID); err != nil {
			return 0, fmt.Errorf("failed to update video progress: %w", err)
		}
		return existingID, nil
	}

	insert := `
		INSERT INTO video_progress (child_id, video_id, progress, completed)
		VALUES (?, ?, ?, ?)
	`
	id, err := b.db.ExecReturningID(insert, childID, videoID, progress, completed)
	if err != nil {
		return 0, fmt.Errorf("failed to create video progress: %w", err)
	}
	return id, nil
}

// GetVideoProgressByChild retrieves all video progress rows for a child.
func (b *SQLBackend) GetVideoProgressByChild(childID int64) ([]models.VideoProgress, error) {
	query := `
		SELECT id, child_id, video_id, progress, completed, last_watched
		FROM video_progress
		WHERE child_id = ?
		ORDER BY id ASC
	`
	rows, err := b.db.Query(query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query video progress: %w", err)
	}
	defer rows.Close()

	progress := []models.VideoProgress{}
	for rows.Next() {
		videoProgress := models.VideoProgress{}
		if err := rows.Scan(&videoProgress.ID, &videoProgress.ChildID, &videoProgress.VideoID, &videoProgress.Progress, &videoProgress.Completed, &videoProgress.LastWatched); err != nil {
			return nil, fmt.Errorf("failed to scan video progress: %w", err)
		}
		progress = append(progress, videoProgress)
	}

	return progress, rows.Err()
}
