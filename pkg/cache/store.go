package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrMiss is returned when no live entry exists for a key
	ErrMiss = errors.New("cache miss")

	// ErrCorrupt is returned when a stored entry cannot be decoded
	ErrCorrupt = errors.New("corrupt cache entry")
)

// Store keeps revalidation entries in Redis.
type Store struct {
	redis *redis.Client
}

// NewStore creates a store on top of redisClient.
func NewStore(redisClient *redis.Client) *Store {
	if redisClient == nil {
		panic("cache: redis client cannot be nil")
	}
	return &Store{redis: redisClient}
}

// Get returns the entry for key, or ErrMiss.
func (s *Store) Get(ctx context.Context, key Key) (*Entry, error) {
	raw, err := s.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			StoreMisses.Inc()
			return nil, ErrMiss
		}
		StoreErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		StoreErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if entry.IsExpired() {
		_ = s.Delete(ctx, key)
		StoreMisses.Inc()
		return nil, ErrMiss
	}

	StoreHits.Inc()
	return &entry, nil
}

// Put writes entry under key with a TTL taken from entry.Expires.
// Entries that are already expired are silently dropped.
func (s *Store) Put(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return errors.New("cache entry cannot be nil")
	}

	ttl := entry.TTL()
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		StoreErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.redis.Set(ctx, key.String(), raw, ttl).Err(); err != nil {
		StoreErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key Key) error {
	if err := s.redis.Del(ctx, key.String()).Err(); err != nil {
		StoreErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Extend moves the expiry of an existing entry, as a 304 reply carries a
// fresh Expires header.
func (s *Store) Extend(ctx context.Context, key Key, expires time.Time) error {
	entry, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	entry.Expires = expires
	return s.Put(ctx, key, entry)
}
