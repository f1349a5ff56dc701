package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const summaryTTL = 24 * time.Hour

// RedisSummaryCache stores quick-view summaries. Recipes never change once
// stored, so entries only expire by TTL.
type RedisSummaryCache struct {
	redis *redis.Client
}

func NewRedisSummaryCache(client *redis.Client) *RedisSummaryCache {
	return &RedisSummaryCache{redis: client}
}

func (c *RedisSummaryCache) Get(ctx context.Context, recipeID string) (string, bool, error) {
	val, err := c.redis.Get(ctx, "recipe:summary:"+recipeID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read summary cache: %w", err)
	}
	return val, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, recipeID, summary string) error {
	if err := c.redis.Set(ctx, "recipe:summary:"+recipeID, summary, summaryTTL).Err(); err != nil {
		return fmt.Errorf("failed to write summary cache: %w", err)
	}
	return nil
}

// RedisTokenDenylist tracks signed-out token IDs.
type RedisTokenDenylist struct {
	redis *redis.Client
}

func NewRedisTokenDenylist(client *redis.Client) *RedisTokenDenylist {
	return &RedisTokenDenylist{redis: client}
}

func (d *RedisTokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.redis.Set(ctx, "auth:revoked:"+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.redis.Exists(ctx, "auth:revoked:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
