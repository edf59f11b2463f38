package persist

import (
	"context"
	"time"
)

// Storage is a byte-oriented key-value store holding the persisted record.
type Storage interface {
	// Get returns the stored value, or nil and no error when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	// A positive ttl lets the backend evict the key on its own; zero keeps it
	// until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
