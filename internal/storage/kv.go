package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	"dentaltrack/internal/kvstore"
)

// KVBackend implements Backend over the key-value fallback store. Each
// entity collection lives under one db_* key as a JSON array, mirroring
// the relational tables. IDs come from a persisted monotonic counter, so
// they stay unique across deletes and restarts (the legacy length+1
// scheme could repeat IDs; see DESIGN.md).
type KVBackend struct {
	store kvstore.Store
}

var _ Backend = (*KVBackend)(nil)

// NewKVBackend creates a key-value backend over a fallback store.
func NewKVBackend(store kvstore.Store) *KVBackend {
	return &KVBackend{store: store}
}

// getCollection loads a JSON-array collection; a missing key is an empty
// collection.
func getCollection[T any](store kvstore.Store, key string) ([]T, error) {
	raw, ok, err := store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return items, nil
}

// putCollection persists a collection as a JSON array.
func putCollection[T any](store kvstore.Store, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Set(key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// nextID advances and returns the store-wide ID counter.
func (b *KVBackend) nextID() (int64, error) {
	raw, ok, err := b.store.Get(kvstore.KeySequence)
	if err != nil {
		return 0, fmt.Errorf("failed to read id counter: %w", err)
	}

	var current int64
	if ok && raw != "" {
		current, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("corrupt id counter %q: %w", raw, err)
		}
	}

	next := current + 1
	if err := b.store.Set(kvstore.KeySequence, strconv.FormatInt(next, 10)); err != nil {
		return 0, fmt.Errorf("failed to advance id counter: %w", err)
	}
	return next, nil
}
