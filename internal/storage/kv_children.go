package storage

import (
	"fmt"
	"time"

	"dentaltrack/internal/kvstore"
	"dentaltrack/internal/models"
)

// CreateChild appends a child profile and its zero-count achievement rows.
func (b *KVBackend) CreateChild(parentID int64, name string, age int, gender, avatarURL string) (int64, error) {
	children, err := getCollection[models.Child](b.store, kvstore.KeyChildren)
	if err != nil {
		return 0, err
	}

	id, err := b.nextID()
	if err != nil {
		return 0, err
	}

	children = append(children, models.Child{
		ID:        id,
		ParentID:  parentID,
		Name:      name,
		Age:       age,
		Gender:    gender,
		AvatarURL: avatarURL,
	})
	if err := putCollection(b.store, kvstore.KeyChildren, children); err != nil {
		return 0, err
	}

	achievements, err := getCollection[models.Achievement](b.store, kvstore.KeyAchievements)
	if err != nil {
		return 0, err
	}
	for _, achievementType := range models.AchievementTypes {
		achievementID, err := b.nextID()
		if err != nil {
			return 0, err
		}
		achievements = append(achievements, models.Achievement{
			ID:          achievementID,
			ChildID:     id,
			Type:        achievementType,
			Count:       0,
			LastUpdated: time.Now().UTC(),
		})
	}
	if err := putCollection(b.store, kvstore.KeyAchievements, achievements); err != nil {
		return 0, err
	}

	return id, nil
}

// GetChildByID retrieves a child by ID, or nil if none exists.
func (b *KVBackend) GetChildByID(id int64) (*models.Child, error) {
	children, err := getCollection[models.Child](b.store, kvstore.KeyChildren)
	if err != nil {
		return nil, err
	}

	for i := range children {
		if children[i].ID == id {
			return &children[i], nil
		}
	}
	return nil, nil
}

// GetChildrenByParent retrieves all children of a parent in insertion order.
func (b *KVBackend) GetChildrenByParent(parentID int64) ([]models.Child, error) {
	children, err := getCollection[models.Child](b.store, kvstore.KeyChildren)
	if err != nil {
		return nil, err
	}

	matched := []models.Child{}
	for _, child := range children {
		if child.ParentID == parentID {
			matched = append(matched, child)
		}
	}
	return matched, nil
}

// UpdateChild updates a child's profile fields.
func (b *KVBackend) UpdateChild(id int64, name string, age int, gender, avatarURL string) error {
	children, err := getCollection[models.Child](b.store, kvstore.KeyChildren)
	if err != nil {
		return err
	}

	for i := range children {
		if children[i].ID == id {
			children[i].Name = name
			children[i].Age = age
			children[i].Gender = gender
			children[i].AvatarURL = avatarURL
			return putCollection(b.store, kvstore.KeyChildren, children)
		}
	}
	return fmt.Errorf("child %d not found", id)
}

// DeleteChild removes a child and everything that references it.
func (b *KVBackend) DeleteChild(id int64) error {
	children, err := getCollection[models.Child](b.store, kvstore.KeyChildren)
	if err != nil {
		return err
	}

	kept := children[:0]
	for _, child := range children {
		if child.ID != id {
			kept = append(kept, child)
		}
	}
	if err := putCollection(b.store, kvstore.KeyChildren, kept); err != nil {
		return err
	}

	if err := dropByChild[models.BrushingRecord](b.store, kvstore.KeyBrushingRecords, id, func(r models.BrushingRecord) int64 { return r.ChildID }); err != nil {
		return err
	}
	if err := dropByChild[models.Achievement](b.store, kvstore.KeyAchievements, id, func(a models.Achievement) int64 { return a.ChildID }); err != nil {
		return err
	}
	if err := dropByChild[models.GameScore](b.store, kvstore.KeyGameScores, id, func(s models.GameScore) int64 { return s.ChildID }); err != nil {
		return err
	}
	return dropByChild[models.VideoProgress](b.store, kvstore.KeyVideoProgress, id, func(p models.VideoProgress) int64 { return p.ChildID })
}

// dropByChild removes every record in a collection owned by the given
// parent ID.
func dropByChild[T any](store kvstore.Store, key string, id int64, owner func(T) int64) error {
	items, err := getCollection[T](store, key)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if owner(item) != id {
			kept = append(kept, item)
		}
	}
	return putCollection(store, key, kept)
}
