package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/pavithrakamath/story-telling-app/internal/config"
)

// NewTextProvider 根据配置名选择文本提供商实现
// 未知名称直接报错，不做静默回退
func NewTextProvider(ctx context.Context, cfg *config.ProvidersConfig) (TextProvider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Text))
	switch name {
	case "ollama":
		return NewOllamaProvider(cfg.Ollama), nil
	case "huggingface":
		return NewHuggingFaceProvider(cfg.HuggingFace)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	default:
		return nil, fmt.Errorf("unsupported text provider: %q", cfg.Text)
	}
}

// NewImageProvider 根据配置名选择图片提供商实现
// 名称为空时回退到确定性占位图提供商
func NewImageProvider(ctx context.Context, cfg *config.ProvidersConfig) (ImageProvider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Image))
	switch name {
	case "", "placeholder":
		return NewPlaceholderProvider(), nil
	case "replicate":
		return NewReplicateProvider(cfg.Replicate)
	case "gemini":
		return NewGeminiImageProvider(ctx, cfg.Gemini)
	default:
		return nil, fmt.Errorf("unsupported image provider: %q", cfg.Image)
	}
}
