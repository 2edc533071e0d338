// Package app 负责服务依赖的手工装配
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	imageapp "github.com/pavithrakamath/story-telling-app/internal/application/image"
	storyapp "github.com/pavithrakamath/story-telling-app/internal/application/story"
	"github.com/pavithrakamath/story-telling-app/internal/config"
	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/persistence/redis"
	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/provider"
	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/ratelimit"
	"github.com/pavithrakamath/story-telling-app/internal/interfaces/http/handler"
	"github.com/pavithrakamath/story-telling-app/internal/interfaces/http/router"
	"github.com/pavithrakamath/story-telling-app/pkg/logger"
)

// App 装配完成的应用
type App struct {
	router *router.Router
	redis  *redis.Client
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

// New 按配置装配全部依赖
// 返回的清理函数负责关闭持有的外部连接
func New(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	text, err := provider.NewTextProvider(ctx, &cfg.Providers)
	if err != nil {
		return nil, nil, fmt.Errorf("init text provider: %w", err)
	}

	image, err := provider.NewImageProvider(ctx, &cfg.Providers)
	if err != nil {
		return nil, nil, fmt.Errorf("init image provider: %w", err)
	}

	health := provider.NewHealthCache(cfg.Providers.HealthCacheTTL)

	storySvc := storyapp.NewService(text, health, cfg.Generation)
	imageSvc := imageapp.NewService(image, health)

	limiter, redisClient, err := buildLimiter(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	handlers := router.Handlers{
		Story:  handler.NewStoryHandler(storySvc, imageSvc, cfg.Features.Images.Enabled),
		Image:  handler.NewImageHandler(imageSvc),
		Models: handler.NewModelsHandler(text),
		Health: handler.NewHealthHandler(text, image, health, redisClient),
	}

	a := &App{
		router: router.New(cfg, handlers, limiter),
		redis:  redisClient,
	}

	cleanup := func() {
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				logger.Error(context.Background(), "failed to close redis client", err)
			}
		}
	}
	return a, cleanup, nil
}

// buildLimiter 根据配置选择限流存储
// memory 为默认；redis 存储要求同时启用 cache.redis
func buildLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, *redis.Client, error) {
	if !cfg.Security.RateLimit.Enabled {
		return nil, nil, nil
	}

	switch cfg.Security.RateLimit.Store {
	case "", "memory":
		limiter := ratelimit.NewMemoryLimiter()
		limiter.StartSweeper(ctx, cfg.Security.RateLimit.Window)
		return limiter, nil, nil
	case "redis":
		if !cfg.Cache.Redis.Enabled {
			return nil, nil, fmt.Errorf("rate limit store is redis but cache.redis is disabled")
		}
		client, err := redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("init redis client: %w", err)
		}
		return redis.NewRateLimiter(client), client, nil
	default:
		return nil, nil, fmt.Errorf("unsupported rate limit store: %q", cfg.Security.RateLimit.Store)
	}
}
