package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pavithrakamath/story-telling-app/internal/config"
	"github.com/pavithrakamath/story-telling-app/pkg/errors"
)

// HuggingFaceProvider Hugging Face Inference API 适配器
// 需要 Bearer 凭证，构造时即校验
type HuggingFaceProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewHuggingFaceProvider 创建 Hugging Face 提供商
// 凭证缺失立即报错，避免首次调用时才失败
func NewHuggingFaceProvider(cfg config.HuggingFaceConfig) (*HuggingFaceProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New(errors.CodeProviderNotConfigured, "huggingface api key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HuggingFaceProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Name 返回提供商名称
func (p *HuggingFaceProvider) Name() string {
	return "huggingface"
}

type hfParameters struct {
	Temperature    float64  `json:"temperature,omitempty"`
	MaxNewTokens   int      `json:"max_new_tokens,omitempty"`
	TopP           float64  `json:"top_p,omitempty"`
	Stop           []string `json:"stop,omitempty"`
	ReturnFullText bool     `json:"return_full_text"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfResult struct {
	GeneratedText string `json:"generated_text"`
}

// GenerateText 调用托管推理端点生成文本
// 停止序列随请求一起下发，由服务端截断
func (p *HuggingFaceProvider) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	ctx, span := tracer.Start(ctx, "huggingface.GenerateText")
	defer span.End()

	stop := opts.Stop
	if len(stop) == 0 {
		stop = []string{"</story>", "\n\n\n\n"}
	}

	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			Temperature:    opts.Temperature,
			MaxNewTokens:   opts.MaxTokens,
			TopP:           opts.TopP,
			Stop:           stop,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal huggingface request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build huggingface request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("huggingface returned status %d: %s", resp.StatusCode, string(data))
	}

	var results []hfResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to decode huggingface response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("huggingface returned empty result")
	}
	return results[0].GeneratedText, nil
}

// CheckHealth 仅校验凭证存在，不发起真实调用
func (p *HuggingFaceProvider) CheckHealth(ctx context.Context) error {
	if strings.TrimSpace(p.apiKey) == "" {
		return errors.New(errors.CodeProviderNotConfigured, "huggingface api key is missing")
	}
	return nil
}
