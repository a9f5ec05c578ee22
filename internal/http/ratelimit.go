package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Limiter throttles per-key (client IP) within a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type bucket struct {
	tokens  int
	updated time.Time
}

// MemoryLimiter is the in-process fallback when Redis is not configured.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
}

func NewMemoryLimiter(rate int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*bucket), rate: rate, window: window}
}

func (rl *MemoryLimiter) Allow(_ context.Context, key string) bool {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.updated) > rl.window {
		rl.buckets[key] = &bucket{tokens: 1, updated: now}
		return true
	}
	if b.tokens < rl.rate {
		b.tokens++
		b.updated = now
		return true
	}
	return false
}

// RedisLimiter counts attempts in Redis so the limit holds across replicas.
// Fails open on Redis errors.
type RedisLimiter struct {
	c      *redis.Client
	rate   int
	window time.Duration
}

func NewRedisLimiter(c *redis.Client, rate int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{c: c, rate: rate, window: window}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) bool {
	k := "rl:" + key
	n, err := rl.c.Incr(ctx, k).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		rl.c.Expire(ctx, k, rl.window)
	}
	return n <= int64(rl.rate)
}

func RateLimit(rl Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.Request.Context(), c.ClientIP()) {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
