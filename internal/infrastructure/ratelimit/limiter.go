// Package ratelimit 提供按客户端标识的请求限流
package ratelimit

import (
	"context"
	"time"
)

// Limiter 限流器接口
// 返回是否放行与当前窗口的重置时间，供 Retry-After 提示使用
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Time, error)
}
