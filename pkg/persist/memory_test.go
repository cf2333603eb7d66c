package persist

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreSaveLoad(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, "a", []byte("payload"), time.Time{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := store.Load(ctx, "a")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("unexpected data %q", data)
	}

	// Missing key is (nil, nil)
	data, err = store.Load(ctx, "missing")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil for missing key, got %q", data)
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	payload := []byte("original")
	if err := store.Save(ctx, "a", payload, time.Time{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	payload[0] = 'X'

	data, err := store.Load(ctx, "a")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(data) != "original" {
		t.Errorf("store must copy data, got %q", data)
	}

	data[0] = 'Y'
	again, _ := store.Load(ctx, "a")
	if string(again) != "original" {
		t.Errorf("load must return a copy, got %q", again)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	if err := store.Save(ctx, "a", []byte("x"), time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := store.Load(ctx, "a")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if data != nil {
		t.Errorf("expected expired snapshot to be absent, got %q", data)
	}

	// Zero expiry never expires
	if err := store.Save(ctx, "b", []byte("y"), time.Time{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data, _ = store.Load(ctx, "b")
	if string(data) != "y" {
		t.Errorf("zero-expiry snapshot should persist, got %q", data)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	store.Save(ctx, "a", []byte("x"), time.Time{})
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if data, _ := store.Load(ctx, "a"); data != nil {
		t.Errorf("expected deleted snapshot to be absent, got %q", data)
	}

	// Deleting a missing key is fine
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("delete of missing key should not error, got %v", err)
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	// Close is idempotent
	if err := store.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}

	var closed ErrStoreClosed
	if err := store.Save(ctx, "a", []byte("x"), time.Time{}); !errors.As(err, &closed) {
		t.Errorf("expected ErrStoreClosed from save, got %v", err)
	}
	if _, err := store.Load(ctx, "a"); !errors.As(err, &closed) {
		t.Errorf("expected ErrStoreClosed from load, got %v", err)
	}
	if err := store.Delete(ctx, "a"); !errors.As(err, &closed) {
		t.Errorf("expected ErrStoreClosed from delete, got %v", err)
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	store := NewMemoryStore(WithCleanupInterval(10 * time.Millisecond))
	defer store.Close()
	ctx := context.Background()

	store.Save(ctx, "a", []byte("x"), time.Now().Add(5*time.Millisecond))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		store.mu.RLock()
		_, present := store.snapshots["a"]
		store.mu.RUnlock()
		if !present {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("expired snapshot was not cleaned up")
}
