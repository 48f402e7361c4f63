package storage

import (
	"fmt"
	"time"

	"dentaltrack/internal/kvstore"
	"dentaltrack/internal/models"
)

// CreateUser appends a new user to the fallback collection. The username
// uniqueness the relational schema enforces is checked by hand here.
func (b *KVBackend) CreateUser(username, role string) (int64, error) {
	users, err := getCollection[models.User](b.store, kvstore.KeyUsers)
	if err != nil {
		return 0, err
	}

	for _, user := range users {
		if user.Username == username {
			return 0, fmt.Errorf("username %s already exists", username)
		}
	}

	id, err := b.nextID()
	if err != nil {
		return 0, err
	}

	users = append(users, models.User{
		ID:        id,
		Username:  username,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	if err := putCollection(b.store, kvstore.KeyUsers, users); err != nil {
		return 0, err
	}
	return id, nil
}

// GetUserByUsername retrieves a user by username, or nil if none exists.
func (b *KVBackend) GetUserByUsername(username string) (*models.User, error) {
	users, err := getCollection[models.User](b.store, kvstore.KeyUsers)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, nil
}

// GetUserByID retrieves a user by ID, or nil if none exists.
func (b *KVBackend) GetUserByID(id int64) (*models.User, error) {
	users, err := getCollection[models.User](b.store, kvstore.KeyUsers)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

// UpdateUserRole changes a user's role.
func (b *KVBackend) UpdateUserRole(id int64, role string) error {
	return b.updateUser(id, func(user *models.User) {
		user.Role = role
	})
}

// UpdateUserProfile replaces a user's opaque profile blob.
func (b *KVBackend) UpdateUserProfile(id int64, profileData string) error {
	return b.updateUser(id, func(user *models.User) {
		user.ProfileData = profileData
	})
}

func (b *KVBackend) updateUser(id int64, mutate func(*models.User)) error {
	users, err := getCollection[models.User](b.store, kvstore.KeyUsers)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID == id {
			mutate(&users[i])
			return putCollection(b.store, kvstore.KeyUsers, users)
		}
	}
	return fmt.Errorf("user %d not found", id)
}
