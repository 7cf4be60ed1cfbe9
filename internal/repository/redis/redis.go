package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionKey = "cards:version"

// CatalogCache stores catalog pages as JSON under keys scoped by a version
// counter. Invalidate bumps the counter so stale pages are never read again
// and simply expire.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CatalogCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read cache version: %w", err)
	}

	return v, nil
}

func (c *CatalogCache) slot(ctx context.Context, key string) (string, error) {
	v, err := c.version(ctx)
	if err != nil {
		return "", err
	}

	// slot format: "cards:v{version}:{key}"
	return fmt.Sprintf("cards:v%d:%s", v, key), nil
}

// Get resolves key under the current version. On a miss it still returns the
// slot, which the caller fills once it has read the page from the store. If
// the catalog is invalidated in between, that write lands under the old
// version and is never read.
func (c *CatalogCache) Get(ctx context.Context, key string, dest any) (string, bool, error) {
	slot, err := c.slot(ctx, key)
	if err != nil {
		return "", false, err
	}

	val, err := c.client.Get(ctx, slot).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return slot, false, nil
		}
		return "", false, fmt.Errorf("failed to get cache entry from Redis: %w", err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	return slot, true, nil
}

// Set stores value in a slot returned by Get.
func (c *CatalogCache) Set(ctx context.Context, slot string, value any) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, slot, jsonData, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cache entry in Redis: %w", err)
	}

	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("failed to bump cache version: %w", err)
	}

	return nil
}
