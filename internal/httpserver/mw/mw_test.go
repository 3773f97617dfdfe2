package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/verse/internal/logger"
)

func TestMemoryLimiterAllow(t *testing.T) {
	l := NewMemoryLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 60})
	now := time.Now()
	ctx := context.Background()

	d := l.Allow(ctx, "a", now)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
	assert.Equal(t, 2, d.Limit)

	assert.True(t, l.Allow(ctx, "a", now).Allowed)

	d = l.Allow(ctx, "a", now)
	assert.False(t, d.Allowed)
	assert.Equal(t, 1, d.RetryAfter)

	// Another key has its own bucket
	assert.True(t, l.Allow(ctx, "b", now).Allowed)

	// One token per second refills
	assert.True(t, l.Allow(ctx, "a", now.Add(time.Second)).Allowed)
}

func TestMemoryLimiterSweep(t *testing.T) {
	l := NewMemoryLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1, SweepInterval: time.Minute, IdleTTL: time.Minute})
	now := time.Now()

	l.Allow(context.Background(), "a", now)
	l.Allow(context.Background(), "b", now)
	assert.Equal(t, 2, l.Len())

	l.Allow(context.Background(), "c", now.Add(2*time.Minute))
	assert.Equal(t, 1, l.Len())
}

func TestMemoryLimiterDefaults(t *testing.T) {
	l := NewMemoryLimiter(RateLimitConfig{})
	assert.Equal(t, 1, l.cfg.Burst)
	assert.Equal(t, 1, l.cfg.RefillPerIPPerMin)
	assert.Equal(t, 15*time.Minute, l.cfg.IdleTTL)
}

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"verse.domain.ext", "verse.domain.ext", true},
		{"api.domain.ext", "*.domain.ext", true},
		{"domain.ext", "*.domain.ext", false},
		{"verse.domain.ext", "VERSE.domain.ext", true},
		{"other.ext", "verse.domain.ext", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchHost(tt.host, tt.pattern), "matchHost(%q, %q)", tt.host, tt.pattern)
	}
}

func TestPassthroughWhenUnrestricted(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := AllowOnlyCIDRS(nil, false, logger.NewNop())(EnforceHost(nil, logger.NewNop())(ok))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLogRecordsDefaultStatus(t *testing.T) {
	var seen int
	h := Log(logger.NewNop(), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
		seen = w.(*statusWriter).status
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, seen)
	assert.Equal(t, "ok", rec.Body.String())
}
