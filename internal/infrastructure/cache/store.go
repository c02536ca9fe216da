package cache

import (
	"context"
	"time"
)

// Store is a key-value store with expiration. Backed by Redis when
// configured, by an in-process map otherwise.
type Store interface {
	// Set stores a key-value pair with expiration
	Set(ctx context.Context, key, value string, expiration time.Duration)

	// Get retrieves a value by key (false when not found or expired)
	Get(ctx context.Context, key string) (string, bool)

	// Delete removes a key
	Delete(ctx context.Context, key string)
}
