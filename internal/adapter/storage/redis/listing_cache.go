package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ListingCache implements ports.ListingCache using Redis. It holds
// serialized listing pages keyed by filter parameters; writers drop whole
// key prefixes instead of tracking individual entries.
type ListingCache struct {
	client *goredis.Client
	prefix string
}

// NewListingCache creates a new Redis-backed listing cache.
func NewListingCache(client *goredis.Client) *ListingCache {
	return &ListingCache{
		client: client,
		prefix: "listing:",
	}
}

// Get retrieves a cached page by key.
// Returns nil, nil if the key does not exist.
func (c *ListingCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis listing get: %w", err)
	}
	return val, nil
}

// Set stores a page in the listing cache with TTL.
func (c *ListingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis listing set: %w", err)
	}
	return nil
}

// InvalidatePrefix deletes every key under the given prefix using SCAN,
// so large keyspaces are walked without blocking the server.
func (c *ListingCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	pattern := c.prefix + prefix + "*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("redis listing scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis listing del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
