package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/verse/internal/httpserver/mw"
	"github.com/MrSnakeDoc/verse/internal/logger"
	"github.com/MrSnakeDoc/verse/internal/metrics"
)

const backendRedis = "redis"

// FixedWindowLimiter counts requests per client in fixed windows shared by
// every instance pointing at the same Redis.
// Redis errors let the request through.
type FixedWindowLimiter struct {
	client  *redis.Client
	limit   int
	window  time.Duration
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewFixedWindowLimiter creates a limiter allowing limit requests per window.
func NewFixedWindowLimiter(client *redis.Client, limit int, window time.Duration, log logger.Logger, m *metrics.Metrics) *FixedWindowLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &FixedWindowLimiter{
		client:  client,
		limit:   limit,
		window:  window,
		logger:  log,
		metrics: m,
	}
}

// Allow increments the client's counter for the window containing now.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string, now time.Time) mw.Decision {
	windowIdx := now.UnixNano() / int64(l.window)
	count, err := l.incr(ctx, RateLimitKey(key, windowIdx))
	if err != nil {
		l.metrics.IncrementRateLimitError()
		l.logger.Warn("rate limiter unavailable, allowing request",
			logger.String("client", key),
			logger.Error(err))
		return mw.Decision{Allowed: true, Limit: l.limit, Remaining: l.limit}
	}

	remaining := l.limit - int(count)
	if remaining >= 0 {
		return mw.Decision{Allowed: true, Limit: l.limit, Remaining: remaining}
	}

	l.metrics.IncrementRateLimited(backendRedis)
	windowEnd := time.Unix(0, (windowIdx+1)*int64(l.window))
	retry := int(windowEnd.Sub(now).Seconds() + 0.999)
	if retry < 1 {
		retry = 1
	}
	return mw.Decision{Limit: l.limit, RetryAfter: retry}
}

// incr bumps the counter and sets its expiry in one round trip.
func (l *FixedWindowLimiter) incr(ctx context.Context, key string) (int64, error) {
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return incr.Val(), nil
}

// Ping reports whether Redis answers.
func (l *FixedWindowLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
