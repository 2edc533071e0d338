package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/ratelimit"
	"github.com/pavithrakamath/story-telling-app/pkg/errors"
	"github.com/pavithrakamath/story-telling-app/pkg/logger"
	"github.com/pavithrakamath/story-telling-app/pkg/metrics"
)

// RateLimitConfig 限流中间件配置
type RateLimitConfig struct {
	Enabled bool
	// Requests 窗口内允许的请求数
	Requests int
	// Window 限流窗口长度
	Window time.Duration
	// KeyPrefix 限流 Key 前缀
	KeyPrefix string
}

// RateLimit 按客户端 IP 限流的中间件
// 限流器故障时放行，避免存储故障放大为全站不可用
func RateLimit(cfg RateLimitConfig, limiter ratelimit.Limiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.Requests <= 0 {
		cfg.Requests = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit"
	}

	return func(c *gin.Context) {
		client := clientKey(c)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), logger.ClientIDKey, client))
		key := cfg.KeyPrefix + ":" + client

		allowed, resetAt, err := limiter.Allow(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limiter unavailable, allowing request",
				"error", err.Error(),
			)
			c.Next()
			return
		}

		if !allowed {
			path := c.FullPath()
			if path == "" {
				path = "unknown"
			}
			metrics.RateLimitRejectedTotal.WithLabelValues(path).Inc()

			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     errors.CodeTooManyRequests,
				"message":  "too many requests",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}

// clientKey 提取限流用的客户端标识
// 优先取 X-Forwarded-For 的首跳地址，缺省回退到连接对端 IP
func clientKey(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	return c.ClientIP()
}
