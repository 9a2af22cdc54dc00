package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// Limiter counts hits for a key inside a fixed window.
type Limiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix (default: "rl:ip:")
	KeyPrefix string
	// Whether to reject when the primary limiter errors instead of falling back
	FailClosed bool
}

// ContactRateLimitConfig limits contact form submissions per client IP
func ContactRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:contact:",
		FailClosed: false, // Fail open: a lost message is worse than spam
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in milliseconds
// Returns: [current_count, pttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {count, ttl}
`

// RedisLimiter shares counters between replicas
type RedisLimiter struct {
	client goredis.Scripter
	script *goredis.Script
}

func NewRedisLimiter(client goredis.Scripter) *RedisLimiter {
	return &RedisLimiter{client: client, script: goredis.NewScript(rateLimitLuaScript)}
}

func (l *RedisLimiter) Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	result, err := l.script.Run(ctx, l.client, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	if ttl < 0 {
		ttl = window.Milliseconds()
	}

	return int(count), time.Now().Add(time.Duration(ttl) * time.Millisecond), nil
}

// rateLimitEntry tracks request count for a key (in-memory)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a per-process fixed window limiter
type MemoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]*rateLimitEntry
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > window {
		for k, e := range l.entries {
			if now.After(e.resetAt) {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		entry = &rateLimitEntry{resetAt: now.Add(window)}
		l.entries[key] = entry
	}
	entry.count++

	return entry.count, entry.resetAt, nil
}

// RateLimitMiddleware creates a rate limiting middleware with the given config.
// primary may be nil; fallback is used when primary is nil or failing.
func RateLimitMiddleware(config RateLimitConfig, primary Limiter, fallback *MemoryLimiter, audit *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)

		var count int
		var resetAt time.Time
		var err error

		if primary != nil {
			count, resetAt, err = primary.Hit(c.Request.Context(), fullKey, config.Window)
			if err != nil {
				if config.FailClosed {
					abortWithError(c, apperror.ServiceUnavailable("Service temporarily unavailable. Please try again.", err))
					return
				}
				count, resetAt, _ = fallback.Hit(c.Request.Context(), fullKey, config.Window)
			}
		} else {
			count, resetAt, _ = fallback.Hit(c.Request.Context(), fullKey, config.Window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			audit.LogRateLimitTriggered(
				c.Request.Context(),
				c.ClientIP(),
				c.GetHeader("User-Agent"),
				c.GetString("RequestID"),
				c.FullPath(),
			)

			abortWithError(c, apperror.TooManyRequests("Too many messages. Please try again later."))
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

// abortWithError renders err immediately so the route handler never runs
func abortWithError(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.Code, err.Message, err.Fields)
	c.Abort()
}
