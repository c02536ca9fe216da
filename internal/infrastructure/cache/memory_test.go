package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "key1", "value1", time.Minute)

	value, ok := store.Get(ctx, "key1")
	if !ok {
		t.Fatal("expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("expected value1, got %s", value)
	}
}

func TestMemoryStoreExpiration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "ephemeral", "value", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := store.Get(ctx, "ephemeral"); ok {
		t.Error("expected ephemeral key to be expired")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "key", "value", time.Minute)
	store.Delete(ctx, "key")

	if _, ok := store.Get(ctx, "key"); ok {
		t.Error("expected key to be deleted")
	}
}

func TestMemoryStoreMissingKey(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Get(context.Background(), "nope"); ok {
		t.Error("expected miss for unknown key")
	}
}
