package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter is a fixed-window counter in Redis.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		logger: logger.Named("ratelimit"),
		now:    time.Now,
	}
}

// NewGuestGenerationLimiter allows limit generations per client IP per day.
func NewGuestGenerationLimiter(redisClient *redis.Client, limit int, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    24 * time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:guest_generation",
	}, logger)
}

// GuestQuotaMiddleware limits unauthenticated callers by client IP. Signed-in
// callers pass through untouched, so it must run after OptionalAuth. Requests
// the handler answers with an error status are given back to the quota.
func (rl *RateLimiter) GuestQuotaMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetClaims(c) != nil {
			c.Next()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), c.ClientIP())
		if err != nil {
			rl.logger.Warn("rate limit check failed", zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(resetTime.Sub(rl.now()).Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "guest generation limit reached",
				"message":     fmt.Sprintf("Guests can generate %d times per %v. Sign in to keep cooking.", rl.config.Limit, rl.config.Window),
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := rl.Refund(context.WithoutCancel(c.Request.Context()), c.ClientIP()); err != nil {
				rl.logger.Warn("rate limit refund failed", zap.Error(err))
			}
		}
	}
}

func (rl *RateLimiter) windowKey(key string) (string, time.Time) {
	windowStart := rl.now().Truncate(rl.config.Window)
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix()), windowStart
}

// IsAllowed counts one request for key.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	redisKey, windowStart := rl.windowKey(key)

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// Refund gives back one request counted for key in the current window.
func (rl *RateLimiter) Refund(ctx context.Context, key string) error {
	redisKey, _ := rl.windowKey(key)
	n, err := rl.redis.Decr(ctx, redisKey).Result()
	if err != nil {
		return err
	}
	if n <= 0 {
		return rl.redis.Del(ctx, redisKey).Err()
	}
	return nil
}
