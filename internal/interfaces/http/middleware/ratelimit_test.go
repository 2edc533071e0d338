package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/ratelimit"
	"github.com/pavithrakamath/story-telling-app/pkg/logger"
)

func newLimitedRouter(limiter ratelimit.Limiter, cfg RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(cfg, limiter))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func doGet(r *gin.Engine, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	r := newLimitedRouter(ratelimit.NewMemoryLimiter(), RateLimitConfig{
		Enabled:  true,
		Requests: 3,
		Window:   time.Minute,
	})

	for i := 0; i < 3; i++ {
		w := doGet(r, "1.2.3.4")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := doGet(r, "1.2.3.4")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitInjectsClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{Enabled: true, Requests: 5, Window: time.Minute}, ratelimit.NewMemoryLimiter()))

	var clientID any
	r.GET("/ping", func(c *gin.Context) {
		clientID = c.Request.Context().Value(logger.ClientIDKey)
		c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.2.3.4", clientID)
}

func TestRateLimitKeysByForwardedFor(t *testing.T) {
	r := newLimitedRouter(ratelimit.NewMemoryLimiter(), RateLimitConfig{
		Enabled:  true,
		Requests: 1,
		Window:   time.Minute,
	})

	require.Equal(t, http.StatusOK, doGet(r, "1.2.3.4").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "1.2.3.4").Code)

	// 其他客户端不受影响
	assert.Equal(t, http.StatusOK, doGet(r, "5.6.7.8").Code)
	// 多跳时只取首跳
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "1.2.3.4, 9.9.9.9").Code)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	r := newLimitedRouter(ratelimit.NewMemoryLimiter(), RateLimitConfig{Enabled: false})

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "1.2.3.4").Code)
	}
}

func TestRateLimitNilLimiterPassesThrough(t *testing.T) {
	r := newLimitedRouter(nil, RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "1.2.3.4").Code)
	}
}

// failingLimiter 始终返回错误的限流器
type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (bool, time.Time, error) {
	return false, time.Time{}, fmt.Errorf("store down")
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := newLimitedRouter(failingLimiter{}, RateLimitConfig{
		Enabled:  true,
		Requests: 1,
		Window:   time.Minute,
	})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "1.2.3.4").Code)
	}
}
