package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/domain"
)

// Redis-backed cache for optimization results.
//
// A solve can burn its full wall-clock budget, so identical stop batches are
// worth short-circuiting. Misses are reported as (nil, nil); callers treat
// errors as misses too.
type RedisPlanCache struct {
	client *redis.Client
	prefix string
}

func NewRedisPlanCache(addr, password string, db int) (*RedisPlanCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("plan cache: redis connection failed: %w", err)
	}

	return &RedisPlanCache{client: client, prefix: "routeplanner:"}, nil
}

func (c *RedisPlanCache) Close() error {
	return c.client.Close()
}

func (c *RedisPlanCache) key(k string) string {
	return c.prefix + k
}

// Get returns the cached result for the key, or (nil, nil) on a miss.
func (c *RedisPlanCache) Get(ctx context.Context, key string) (*domain.OptimizationResult, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("plan cache get: %w", err)
	}

	var result domain.OptimizationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("plan cache get: json unmarshal: %w", err)
	}
	return &result, nil
}

// Set stores the result under the key with the given TTL.
func (c *RedisPlanCache) Set(ctx context.Context, key string, result *domain.OptimizationResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("plan cache set: json marshal: %w", err)
	}

	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("plan cache set: %w", err)
	}
	return nil
}
