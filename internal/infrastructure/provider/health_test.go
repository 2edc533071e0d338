package provider

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingChecker 记录探测次数的假提供商
type countingChecker struct {
	calls int32
	err   error
	delay time.Duration
}

func (c *countingChecker) CheckHealth(context.Context) error {
	atomic.AddInt32(&c.calls, 1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return c.err
}

func (c *countingChecker) Name() string { return "counting" }

func TestHealthCacheCachesResult(t *testing.T) {
	checker := &countingChecker{}
	cache := NewHealthCache(time.Minute)

	for i := 0; i < 5; i++ {
		require.NoError(t, cache.Check(context.Background(), "text", checker))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&checker.calls))
}

func TestHealthCacheCachesFailure(t *testing.T) {
	checker := &countingChecker{err: fmt.Errorf("down")}
	cache := NewHealthCache(time.Minute)

	for i := 0; i < 3; i++ {
		assert.Error(t, cache.Check(context.Background(), "text", checker))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&checker.calls))
}

func TestHealthCacheInvalidate(t *testing.T) {
	checker := &countingChecker{}
	cache := NewHealthCache(time.Minute)

	require.NoError(t, cache.Check(context.Background(), "text", checker))
	cache.Invalidate("text", checker)
	require.NoError(t, cache.Check(context.Background(), "text", checker))

	assert.Equal(t, int32(2), atomic.LoadInt32(&checker.calls))
}

func TestHealthCacheKindsAreIndependent(t *testing.T) {
	checker := &countingChecker{}
	cache := NewHealthCache(time.Minute)

	require.NoError(t, cache.Check(context.Background(), "text", checker))
	require.NoError(t, cache.Check(context.Background(), "image", checker))

	assert.Equal(t, int32(2), atomic.LoadInt32(&checker.calls))
}

func TestHealthCacheSingleflight(t *testing.T) {
	checker := &countingChecker{delay: 20 * time.Millisecond}
	cache := NewHealthCache(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cache.Check(context.Background(), "text", checker)
		}()
	}
	wg.Wait()

	// 并发探测被合并，至多执行一次
	assert.Equal(t, int32(1), atomic.LoadInt32(&checker.calls))
}
