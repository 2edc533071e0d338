package provider

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pavithrakamath/story-telling-app/internal/config"
	"github.com/pavithrakamath/story-telling-app/pkg/errors"
)

// GeminiProvider 多模态 SDK 文本适配器
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider 创建 Gemini 文本提供商
// 凭证缺失立即报错
func NewGeminiProvider(ctx context.Context, cfg config.GeminiConfig) (*GeminiProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New(errors.CodeProviderNotConfigured, "gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{
		client: client,
		model:  cfg.TextModel,
	}, nil
}

// Name 返回提供商名称
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// GenerateText 调用 GenerateContent 生成文本
func (p *GeminiProvider) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	ctx, span := tracer.Start(ctx, "gemini.GenerateText")
	defer span.End()

	cfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(opts.TopP))
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if len(opts.Stop) > 0 {
		cfg.StopSequences = opts.Stop
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// CheckHealth 发起一次最小生成调用探测可用性
// 注意：这是真实计费调用，可能较慢；轻量探测端点 SDK 未暴露
func (p *GeminiProvider) CheckHealth(ctx context.Context) error {
	_, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text("ping"), &genai.GenerateContentConfig{
		MaxOutputTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("gemini health check failed: %w", err)
	}
	return nil
}
