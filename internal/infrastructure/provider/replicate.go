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

// ReplicateProvider 托管异步图片生成适配器
// 提交预测任务后按固定间隔轮询，直到进入终态
type ReplicateProvider struct {
	apiKey       string
	baseURL      string
	version      string
	pollInterval time.Duration
	pollTimeout  time.Duration
	client       *http.Client
}

// NewReplicateProvider 创建 Replicate 提供商
func NewReplicateProvider(cfg config.ReplicateConfig) (*ReplicateProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New(errors.CodeProviderNotConfigured, "replicate api key is required")
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ReplicateProvider{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		version:      cfg.Version,
		pollInterval: interval,
		pollTimeout:  timeout,
		client:       &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Name 返回提供商名称
func (p *ReplicateProvider) Name() string {
	return "replicate"
}

type replicatePrediction struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error"`
}

// GenerateImage 提交任务并轮询至终态，返回首个输出 URL
func (p *ReplicateProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "replicate.GenerateImage")
	defer span.End()

	pred, err := p.submit(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	deadline := time.Now().Add(p.pollTimeout)
	for {
		switch pred.Status {
		case "succeeded":
			if len(pred.Output) == 0 {
				return "", fmt.Errorf("replicate prediction %s succeeded without output", pred.ID)
			}
			return pred.Output[0], nil
		case "failed", "canceled":
			return "", fmt.Errorf("replicate prediction %s ended in %s: %s", pred.ID, pred.Status, pred.Error)
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("replicate prediction %s timed out after %s", pred.ID, p.pollTimeout)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.pollInterval):
		}

		pred, err = p.fetch(ctx, pred.ID)
		if err != nil {
			span.RecordError(err)
			return "", err
		}
	}
}

// submit 创建预测任务
func (p *ReplicateProvider) submit(ctx context.Context, prompt string) (*replicatePrediction, error) {
	payload := map[string]any{
		"version": p.version,
		"input":   map[string]any{"prompt": prompt},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal replicate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build replicate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("replicate submit returned status %d: %s", resp.StatusCode, string(data))
	}

	var pred replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("failed to decode replicate prediction: %w", err)
	}
	return &pred, nil
}

// fetch 查询任务状态
func (p *ReplicateProvider) fetch(ctx context.Context, id string) (*replicatePrediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/predictions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build replicate poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate poll failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("replicate poll returned status %d: %s", resp.StatusCode, string(data))
	}

	var pred replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("failed to decode replicate prediction: %w", err)
	}
	return &pred, nil
}

// CheckHealth 仅校验凭证存在
func (p *ReplicateProvider) CheckHealth(ctx context.Context) error {
	if strings.TrimSpace(p.apiKey) == "" {
		return errors.New(errors.CodeProviderNotConfigured, "replicate api key is missing")
	}
	return nil
}
