package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/simaogato/propfolio-backend/internal/domain"
)

const (
	keyPrefix     = "metrics"
	scanBatchSize = 100
)

// metricsCache implements domain.MetricsCache on Redis.
// Entries are keyed by property and snapshot version, so a write that bumps
// the version makes older entries unreachable without any explicit delete.
type metricsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMetricsCache creates a Redis-backed metrics cache
// ttl only bounds memory use; zero keeps entries until invalidated.
func NewMetricsCache(client *redis.Client, ttl time.Duration) domain.MetricsCache {
	return &metricsCache{client: client, ttl: ttl}
}

func metricsKey(key domain.CacheKey) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, key.PropertyID, key.Version)
}

func propertyPattern(propertyID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:*", keyPrefix, propertyID)
}

// Get returns the cached result for key, or found=false on a miss
func (c *metricsCache) Get(ctx context.Context, key domain.CacheKey) (*domain.MetricsResult, bool, error) {
	data, err := c.client.Get(ctx, metricsKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached metrics: %w", err)
	}

	var result domain.MetricsResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached metrics: %w", err)
	}

	return &result, true, nil
}

// Set stores result under key
func (c *metricsCache) Set(ctx context.Context, key domain.CacheKey, result *domain.MetricsResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	if err := c.client.Set(ctx, metricsKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metrics: %w", err)
	}

	return nil
}

// Invalidate removes every cached version of a property
func (c *metricsCache) Invalidate(ctx context.Context, propertyID uuid.UUID) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, propertyPattern(propertyID), scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached metrics: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cached metrics: %w", err)
	}

	return nil
}
