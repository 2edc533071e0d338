package provider

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// healthChecker TextProvider 与 ImageProvider 的公共子集
type healthChecker interface {
	CheckHealth(ctx context.Context) error
	Name() string
}

// HealthCache 进程级健康检查缓存
// 托管后端的健康探测可能又慢又贵（见 Gemini 文本探测），
// 在 TTL 内复用结果，singleflight 合并并发探测
type HealthCache struct {
	cache *gocache.Cache
	group singleflight.Group
	ttl   time.Duration
}

// NewHealthCache 创建健康检查缓存
func NewHealthCache(ttl time.Duration) *HealthCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &HealthCache{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

type healthResult struct {
	err error
}

// Check 返回缓存的健康状态，过期则重新探测
func (h *HealthCache) Check(ctx context.Context, kind string, p healthChecker) error {
	key := kind + ":" + p.Name()

	if v, ok := h.cache.Get(key); ok {
		return v.(healthResult).err
	}

	v, err, _ := h.group.Do(key, func() (any, error) {
		res := healthResult{err: p.CheckHealth(ctx)}
		h.cache.Set(key, res, h.ttl)
		return res, nil
	})
	if err != nil {
		return err
	}
	return v.(healthResult).err
}

// Invalidate 清除指定提供商的缓存结果
func (h *HealthCache) Invalidate(kind string, p healthChecker) {
	h.cache.Delete(kind + ":" + p.Name())
}
