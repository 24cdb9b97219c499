package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window request counter. Allow reports whether the
// request identified by key fits inside the current window, the requests
// remaining in it, and how long until the window resets.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int64, resetAfter time.Duration, err error)
}

// RedisLimiter counts requests in redis so the window survives restarts and
// is shared between replicas.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, int64, time.Duration, error) {
	redisKey := "ratelimit:" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, 0, fmt.Errorf("ratelimit: incr: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, 0, fmt.Errorf("ratelimit: expire: %w", err)
		}
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= l.limit, remaining, ttl, nil
}

// MemoryLimiter is the in-process fallback used when no redis address is
// configured.
type MemoryLimiter struct {
	limit  int64
	window time.Duration

	mu      sync.Mutex
	windows map[string]*windowState
}

type windowState struct {
	count   int64
	resetAt time.Time
}

func NewMemoryLimiter(limit int64, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*windowState),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, int64, time.Duration, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.windows[key]
	if !ok || now.After(state.resetAt) {
		state = &windowState{resetAt: now.Add(l.window)}
		l.windows[key] = state
	}
	state.count++

	remaining := l.limit - state.count
	if remaining < 0 {
		remaining = 0
	}

	return state.count <= l.limit, remaining, time.Until(state.resetAt), nil
}
