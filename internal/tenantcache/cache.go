// Package tenantcache is a Redis-backed cache for tenant-scoped reads.
//
// Every cached value is stamped with the epoch of the user's active-tenant
// selection at write time. Switching organizations bumps the epoch, which
// makes every value written under the old epoch unreachable in a single
// write. This coarse invalidation is deliberate: enumerating individual
// cache keys on switch risks missing one and leaking the previous tenant's
// data into the new context.
package tenantcache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned by Get when no value is cached under the current epoch.
var ErrMiss = redis.Nil

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a tenant cache over the given Redis client. ttl bounds how
// long an entry may live even within a single epoch.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Epoch returns the user's current cache epoch. A user who has never
// switched has epoch 0.
func (c *Cache) Epoch(ctx context.Context, userID string) (int64, error) {
	n, err := c.client.Get(ctx, epochKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Invalidate bumps the user's epoch, orphaning every tenant-scoped value
// cached before the call. Called on every successful organization switch.
func (c *Cache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Incr(ctx, epochKey(userID)).Err()
}

// Get returns the value cached under key for the user's current epoch.
// Returns ErrMiss when nothing is cached under the current epoch, including
// when a value exists but was written before the last Invalidate.
func (c *Cache) Get(ctx context.Context, userID, key string) (string, error) {
	epoch, err := c.Epoch(ctx, userID)
	if err != nil {
		return "", err
	}
	return c.client.Get(ctx, valueKey(userID, epoch, key)).Result()
}

// Set caches value under key, stamped with the user's current epoch.
func (c *Cache) Set(ctx context.Context, userID, key, value string) error {
	epoch, err := c.Epoch(ctx, userID)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, valueKey(userID, epoch, key), value, c.ttl).Err()
}

func epochKey(userID string) string {
	return "tenantepoch:" + userID
}

func valueKey(userID string, epoch int64, key string) string {
	return fmt.Sprintf("tenant:%s:%d:%s", userID, epoch, key)
}
