package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pavithrakamath/story-telling-app/internal/config"
	"github.com/pavithrakamath/story-telling-app/pkg/errors"
)

// GeminiImageProvider 多模态流式 SDK 图片适配器
// 消费流式响应，返回遇到的第一个内联图片分片
type GeminiImageProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiImageProvider 创建 Gemini 图片提供商
func NewGeminiImageProvider(ctx context.Context, cfg config.GeminiConfig) (*GeminiImageProvider, error) {
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
	return &GeminiImageProvider{
		client: client,
		model:  cfg.ImageModel,
	}, nil
}

// Name 返回提供商名称
func (p *GeminiImageProvider) Name() string {
	return "gemini"
}

// GenerateImage 流式生成并返回首个内联图片的 data URI
// 流结束仍未出现图片分片时报错
func (p *GeminiImageProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "gemini.GenerateImage")
	defer span.End()

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, genai.Text(prompt), cfg) {
		if err != nil {
			span.RecordError(err)
			return "", fmt.Errorf("gemini image stream failed: %w", err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					mime := part.InlineData.MIMEType
					if mime == "" {
						mime = "image/png"
					}
					encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
					return fmt.Sprintf("data:%s;base64,%s", mime, encoded), nil
				}
			}
		}
	}

	return "", fmt.Errorf("gemini stream ended without an image chunk")
}

// CheckHealth 仅校验客户端已配置
// 图片模型不做真实探测调用，避免每次就绪检查都产生计费生成
func (p *GeminiImageProvider) CheckHealth(ctx context.Context) error {
	if p.client == nil {
		return errors.New(errors.CodeProviderNotConfigured, "gemini client is not configured")
	}
	return nil
}
