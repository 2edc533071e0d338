// Package provider 封装外部文本/图片生成后端
package provider

import (
	"context"
)

// GenerateOptions 文本生成采样参数
// 零值字段表示由后端使用自身默认值
type GenerateOptions struct {
	Temperature   float64
	MaxTokens     int
	TopP          float64
	RepeatPenalty float64
	// Stop 生成停止序列，并非所有后端都支持
	Stop []string
}

// TextProvider 文本生成后端的统一契约
type TextProvider interface {
	// GenerateText 根据提示词生成自由文本
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	// CheckHealth 检查后端是否可用
	CheckHealth(ctx context.Context) error
	// Name 返回提供商名称，用于日志与指标
	Name() string
}

// ModelLister 可枚举模型列表的后端实现该接口
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// ImageProvider 图片生成后端的统一契约
// GenerateImage 的返回值只会是 data URI 或远程 URL，不会是原始二进制
type ImageProvider interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
	CheckHealth(ctx context.Context) error
	Name() string
}
