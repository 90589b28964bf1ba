package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisKeyPrefix namespaces every key written by RedisStore.
const redisKeyPrefix = "nutriboard:cache:"

// RedisStore keeps entries in Redis and lets Redis expire them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, log: log}
}

func (s *RedisStore) redisKey(key string) string {
	return redisKeyPrefix + key
}

// Get retrieves an entry. A Redis miss maps to ErrCacheNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		s.log.Debug().Str("key", key).Msg("cache miss")
		return nil, ErrCacheNotFound
	}
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to get from cache")
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}

	// Redis expiry is second-granular; honor the entry's own deadline as well.
	if entry.IsExpired() {
		return nil, ErrCacheExpired
	}

	s.log.Debug().Str("key", key).Msg("cache hit")
	return &entry, nil
}

// Set stores data under key with the store TTL.
func (s *RedisStore) Set(ctx context.Context, key string, data json.RawMessage) error {
	if key == "" {
		return ErrInvalidCacheKey
	}

	payload, err := json.Marshal(NewEntry(key, data, s.ttl))
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if setErr := s.client.Set(ctx, s.redisKey(key), payload, s.ttl).Err(); setErr != nil {
		s.log.Error().Err(setErr).Str("key", key).Msg("failed to set cache")
		return fmt.Errorf("redis set: %w", setErr)
	}

	s.log.Debug().Str("key", key).Dur("ttl", s.ttl).Msg("cached response")
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Clear removes every key under the nutriboard prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// IsEnabled always returns true; a RedisStore only exists when caching is on.
func (s *RedisStore) IsEnabled() bool {
	return true
}
