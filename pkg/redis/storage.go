package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a persist.Storage backed by Redis. Record TTLs are mirrored
// into Redis expirations, so stale sessions disappear server-side too.
type Storage struct {
	db     redis.UniversalClient
	prefix string
}

// NewStorage wraps client. Keys are stored as prefix+key.
func NewStorage(client redis.UniversalClient, prefix string) *Storage {
	return &Storage{db: client, prefix: prefix}
}

// NewStorageFromConfig wraps client using cfg.KeyPrefix.
func NewStorageFromConfig(client redis.UniversalClient, cfg Config) *Storage {
	return NewStorage(client, cfg.KeyPrefix)
}

// Get returns nil for missing keys (redis.Nil becomes nil).
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores value with expiration. Zero ttl means no expiration.
func (s *Storage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.db.Set(ctx, s.prefix+key, value, max(ttl, 0)).Err()
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.db.Del(ctx, s.prefix+key).Err()
}

// TTL returns the remaining lifetime of key as reported by Redis.
func (s *Storage) TTL(ctx context.Context, key string) (time.Duration, error) {
	return s.db.TTL(ctx, s.prefix+key).Result()
}

// Close terminates the Redis connection.
func (s *Storage) Close() error {
	return s.db.Close()
}
