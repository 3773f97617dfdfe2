package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/verse/internal/logger"
)

func TestFixedWindowLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	l := NewFixedWindowLimiter(client, 2, time.Minute, logger.NewNop(), nil)

	for i := 0; i < 5; i++ {
		d := l.Allow(context.Background(), "203.0.113.7", time.Now())
		assert.True(t, d.Allowed, "request %d should pass while redis is down", i)
		assert.Equal(t, 2, d.Limit)
	}
	assert.Error(t, l.Ping(context.Background()))
}

func TestNewFixedWindowLimiterDefaults(t *testing.T) {
	l := NewFixedWindowLimiter(nil, 0, 0, logger.NewNop(), nil)
	assert.Equal(t, 1, l.limit)
	assert.Equal(t, time.Minute, l.window)
}
