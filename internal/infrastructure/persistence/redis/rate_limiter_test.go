package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) *RateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewRateLimiter(NewClientFromRedis(rdb))
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, _, err := l.Allow(ctx, "rl:test", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, _, err := l.Allow(ctx, "rl:test", 5, time.Minute)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, resetAt, err := l.Allow(ctx, "rl:test", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.True(t, resetAt.After(time.Now()))
}

func TestRateLimiterRemaining(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()

	remaining, err := l.Remaining(ctx, "rl:test", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	l.Allow(ctx, "rl:test", 5, time.Minute)
	l.Allow(ctx, "rl:test", 5, time.Minute)

	remaining, err = l.Remaining(ctx, "rl:test", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
}

func TestRateLimiterReset(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()

	allowed, _, _ := l.Allow(ctx, "rl:test", 1, time.Minute)
	require.True(t, allowed)
	allowed, _, _ = l.Allow(ctx, "rl:test", 1, time.Minute)
	require.False(t, allowed)

	require.NoError(t, l.Reset(ctx, "rl:test"))

	allowed, _, _ = l.Allow(ctx, "rl:test", 1, time.Minute)
	assert.True(t, allowed)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	l := newTestLimiter(t)
	ctx := context.Background()

	allowed, _, _ := l.Allow(ctx, "rl:a", 1, time.Minute)
	require.True(t, allowed)
	allowed, _, _ = l.Allow(ctx, "rl:a", 1, time.Minute)
	require.False(t, allowed)

	allowed, _, _ = l.Allow(ctx, "rl:b", 1, time.Minute)
	assert.True(t, allowed)
}
