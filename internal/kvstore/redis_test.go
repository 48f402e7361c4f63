package kvstore

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	srv := miniredis.RunT(t)
	store, err := NewRedisStore(srv.Addr(), "")
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)

	if _, ok, err := store.Get(KeyUsers); err != nil || ok {
		t.Errorf("Get(missing) = ok %v, err %v, want absent", ok, err)
	}

	if err := store.Set(KeyUsers, `[{"id":1}]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok, err := store.Get(KeyUsers)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok || value != `[{"id":1}]` {
		t.Errorf("Get() = %q, ok %v", value, ok)
	}
}

func TestRedisStoreRemove(t *testing.T) {
	store := newTestRedisStore(t)

	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Remove("k"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Error("Get() after Remove() still present")
	}
}
