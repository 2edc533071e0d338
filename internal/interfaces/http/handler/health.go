package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/persistence/redis"
	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/provider"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	text   provider.TextProvider
	image  provider.ImageProvider
	health *provider.HealthCache
	redis  *redis.Client
}

// NewHealthHandler 创建健康检查处理器
// redisClient 可为 nil，表示未启用 Redis 限流存储
func NewHealthHandler(text provider.TextProvider, image provider.ImageProvider, health *provider.HealthCache, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		text:   text,
		image:  image,
		health: health,
		redis:  redisClient,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// Ready 就绪检查接口
// @Summary 就绪检查
// @Description 检查文本提供商是否可用；图片提供商与 Redis 不影响就绪态
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"text_provider":  {Status: "unknown"},
		"image_provider": {Status: "disabled"},
	}

	ready := true

	// 文本提供商（必需）
	if h.text == nil {
		checks["text_provider"].Status = "missing"
		checks["text_provider"].Error = "text provider not configured"
		ready = false
	} else {
		start := time.Now()
		err := h.health.Check(ctx, "text", h.text)
		checks["text_provider"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["text_provider"].Status = "error"
			checks["text_provider"].Error = err.Error()
			ready = false
		} else {
			checks["text_provider"].Status = "ok"
		}
	}

	// 图片提供商（可选，失败只降级）
	if h.image != nil {
		checks["image_provider"] = &readinessCheck{Status: "unknown"}
		start := time.Now()
		err := h.health.Check(ctx, "image", h.image)
		checks["image_provider"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["image_provider"].Status = "degraded"
			checks["image_provider"].Error = err.Error()
		} else {
			checks["image_provider"].Status = "ok"
		}
	}

	// Redis（可选，仅限流存储使用）
	if h.redis != nil {
		checks["redis"] = &readinessCheck{Status: "unknown"}
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		checks["redis"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["redis"].Status = "degraded"
			checks["redis"].Error = err.Error()
		} else {
			checks["redis"].Status = "ok"
		}
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Description 检查服务是否存活
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
