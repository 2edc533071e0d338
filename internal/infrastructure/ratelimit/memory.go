package ratelimit

import (
	"context"
	"sync"
	"time"
)

// entry 单个客户端的固定窗口计数
type entry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter 进程内固定窗口限流器
// 状态随进程重启清零，多实例部署间不同步（单实例部署的既定限制）
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewMemoryLimiter 创建内存限流器
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow 固定窗口计数：窗口过期则重置，超额则拒绝
func (l *MemoryLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &entry{count: 0, resetAt: now.Add(window)}
		l.entries[key] = e
	}

	if e.count >= limit {
		return false, e.resetAt, nil
	}
	e.count++
	return true, e.resetAt, nil
}

// Sweep 清理已过期的窗口条目，防止 map 无界增长
func (l *MemoryLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, k)
		}
	}
}

// StartSweeper 启动后台清理循环，ctx 取消时退出
func (l *MemoryLimiter) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Sweep()
			}
		}
	}()
}
