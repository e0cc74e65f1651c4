// Package cache holds the short-lived unread notification counters.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	unreadKeyPrefix = "notifications:unread:"
	DefaultTTL      = 30 * time.Second
)

// UnreadCache stores per-user unread notification counts.
type UnreadCache interface {
	// Get returns the cached count and whether it was present.
	Get(ctx context.Context, userID string) (int64, bool, error)
	Set(ctx context.Context, userID string, count int64) error
	Invalidate(ctx context.Context, userID string) error
}

// RedisUnreadCache keeps counts under notifications:unread:<userId> with a TTL.
type RedisUnreadCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses url and verifies the server answers a PING.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewRedisUnreadCache(client *redis.Client, ttl time.Duration) *RedisUnreadCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisUnreadCache{client: client, ttl: ttl}
}

func unreadKey(userID string) string {
	return unreadKeyPrefix + userID
}

func (c *RedisUnreadCache) Get(ctx context.Context, userID string) (int64, bool, error) {
	n, err := c.client.Get(ctx, unreadKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read unread count: %w", err)
	}
	return n, true, nil
}

func (c *RedisUnreadCache) Set(ctx context.Context, userID string, count int64) error {
	if err := c.client.Set(ctx, unreadKey(userID), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache unread count: %w", err)
	}
	return nil
}

func (c *RedisUnreadCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, unreadKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate unread count: %w", err)
	}
	return nil
}

// NoopUnreadCache never holds anything, so every read falls through to the database.
type NoopUnreadCache struct{}

func (NoopUnreadCache) Get(context.Context, string) (int64, bool, error) { return 0, false, nil }
func (NoopUnreadCache) Set(context.Context, string, int64) error { return nil }
func (NoopUnreadCache) Invalidate(context.Context, string) error { return nil }
