package kvstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok %v, err %v, want absent", ok, err)
	}

	if err := store.Set(KeyLegacyUserAuth, `{"username":"+989123456789"}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok, err := store.Get(KeyLegacyUserAuth)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok || value != `{"username":"+989123456789"}` {
		t.Errorf("Get() = %q, ok %v", value, ok)
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := store.Set(KeyMigrationCompleted, "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(KeyUsers, "[]"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() reopen error = %v", err)
	}

	value, ok, err := reopened.Get(KeyMigrationCompleted)
	if err != nil || !ok || value != "true" {
		t.Errorf("reopened Get(%s) = %q, ok %v, err %v", KeyMigrationCompleted, value, ok, err)
	}
}

func TestFileStoreRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	// Removing a missing key is a no-op
	if err := store.Remove("missing"); err != nil {
		t.Errorf("Remove(missing) error = %v", err)
	}

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

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := NewFileStore(path); err == nil {
		t.Error("NewFileStore() with corrupt file should return an error")
	}
}
