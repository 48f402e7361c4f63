package storage

import (
	"time"

	"dentaltrack/internal/kvstore"
	"dentaltrack/internal/models"
)

// SaveGameScore upserts the latest score for (child, game type).
func (b *KVBackend) SaveGameScore(childID int64, gameType string, score int) (int64, error) {
	scores, err := getCollection[models.GameScore](b.store, kvstore.KeyGameScores)
	if err != nil {
		return 0, err
	}

	for i := range scores {
		if scores[i].ChildID == childID && scores[i].GameType == gameType {
			scores[i].Score = score
			scores[i].UpdatedAt = time.Now().UTC()
			if err := putCollection(b.store, kvstore.KeyGameScores, scores); err != nil {
				return 0, err
			}
			return scores[i].ID, nil
		}
	}

	id, err := b.nextID()
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	scores = append(scores, models.GameScore{
		ID:        id,
		ChildID:   childID,
		GameType:  gameType,
		Score:     score,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err := putCollection(b.store, kvstore.KeyGameScores, scores); err != nil {
		return 0, err
	}
	return id, nil
}

// GetGameScoresByChild retrieves all game scores for a child.
func (b *KVBackend) GetGameScoresByChild(childID int64) ([]models.GameScore, error) {
	scores, err := getCollection[models.GameScore](b.store, kvstore.KeyGameScores)
	if err != nil {
		return nil, err
	}

	matched := []models.GameScore{}
	for _, score := range scores {
		if score.ChildID == childID {
			matched = append(matched, score)
		}
	}
	return matched, nil
}

// SaveVideoProgress upserts the watch progress for (child, video).
func (b *KVBackend) SaveVideoProgress(childID int64, videoID string, progress float64, completed bool) (int64, error) {
	entries, err := getCollection[models.VideoProgress](b.store, kvstore.KeyVideoProgress)
	if err != nil {
		return 0, err
	}

	for i := range entries {
		if entries[i].ChildID == childID && entries[i].VideoID == videoID {
			entries[i].Progress = progress
			entries[i].Completed = completed
			entries[i].LastWatched = time.Now().UTC()
			if err := putCollection(b.store, kvstore.KeyVideoProgress, entries); err != nil {
				return 0, err
			}
			return entries[i].ID, nil
		}
	}

	id, err := b.nextID()
	if err != nil {
		return 0, err
	}

	entries = append(entries, models.VideoProgress{
		ID:          id,
		ChildID:     childID,
		VideoID:     videoID,
		Progress:    progress,
		Completed:   completed,
		LastWatched: time.Now().UTC(),
	})
	if err := putCollection(b.store, kvstore.KeyVideoProgress, entries); err != nil {
		return 0, err
	}
	return id, nil
}

// GetVideoProgressByChild retrieves all video progress rows for a child.
func (b *KVBackend) GetVideoProgressByChild(childID int64) ([]models.VideoProgress, error) {
	entries, err := getCollection[models.VideoProgress](b.store, kvstore.KeyVideoProgress)
	if err != nil {
		return nil, err
	}

	matched := []models.VideoProgress{}
	for _, entry := range entries {
		if entry.ChildID == childID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}
