package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/lcampanari/gamebook-api/internal/errors"
	"github.com/lcampanari/gamebook-api/internal/pkg/clock"
	redisclient "github.com/lcampanari/gamebook-api/internal/redis"
)

const (
	// Key pattern: retrieval_cache:{bookId}:{sectionNumber}
	cacheKeyPrefix = "retrieval_cache:"
	defaultTTL     = time.Hour

	scanBatchSize = 100
)

// Config holds the configuration for the Redis cache
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
	TTL    time.Duration // defaults to one hour
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type entry struct {
	Value     json.RawMessage `json:"value"`
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type redisCache struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed retrieval cache
func NewRedisCache(cfg *Config) (Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &redisCache{
		client: cfg.Client,
		clock:  cfg.Clock,
		ttl:    ttl,
	}, nil
}

var _ Cache = (*redisCache)(nil)

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.InvalidArgument("cache key cannot be empty")
	}

	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("cache miss for %s", key)
		}
		return nil, errors.Wrapf(err, "failed to read cache entry %s", key)
	}

	var e entry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal cache entry %s", key)
	}

	// Entries past their TTL count as misses even if the key survived
	if c.clock.Now().After(e.ExpiresAt) {
		_ = c.client.Del(ctx, cacheKeyPrefix+key).Err()
		return nil, errors.NotFoundf("cache entry %s expired", key)
	}

	return e.Value, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.InvalidArgument("cache key cannot be empty")
	}

	now := c.clock.Now()
	data, err := json.Marshal(entry{
		Value:     value,
		StoredAt:  now,
		ExpiresAt: now.Add(c.ttl),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to marshal cache entry %s", key)
	}

	if err := c.client.Set(ctx, cacheKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to store cache entry %s", key)
	}
	return nil
}

func (c *redisCache) Clear(ctx context.Context) (int, error) {
	return c.sweep(ctx, func(entry) bool { return true })
}

func (c *redisCache) EvictExpired(ctx context.Context) (int, error) {
	now := c.clock.Now()
	return c.sweep(ctx, func(e entry) bool { return now.After(e.ExpiresAt) })
}

// sweep scans the cache keyspace and deletes entries the predicate
// selects, returning how many were removed.
func (c *redisCache) sweep(ctx context.Context, shouldDelete func(entry) bool) (int, error) {
	var (
		cursor  uint64
		removed int
	)

	for {
		keys, next, err := c.client.Scan(ctx, cursor, cacheKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return removed, errors.Wrap(err, "failed to scan cache keys")
		}

		for _, key := range keys {
			data, err := c.client.Get(ctx, key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				return removed, errors.Wrapf(err, "failed to read cache entry %s", key)
			}

			var e entry
			if err := json.Unmarshal([]byte(data), &e); err != nil {
				// Unreadable entries are dropped rather than kept forever
				e = entry{}
			}

			if shouldDelete(e) {
				if err := c.client.Del(ctx, key).Err(); err != nil {
					return removed, errors.Wrapf(err, "failed to delete cache entry %s", key)
				}
				removed++
			}
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
