// Package image 实现段落插图生成的应用层编排
package image

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/provider"
	"github.com/pavithrakamath/story-telling-app/pkg/errors"
	"github.com/pavithrakamath/story-telling-app/pkg/logger"
	"github.com/pavithrakamath/story-telling-app/pkg/metrics"
)

var tracer = otel.Tracer("application.image")

// maxConcurrentImages 单次故事的插图生成并发上限
const maxConcurrentImages = 4

// Service 图片生成服务
type Service struct {
	image  provider.ImageProvider
	health *provider.HealthCache
}

// NewService 创建图片生成服务
func NewService(image provider.ImageProvider, health *provider.HealthCache) *Service {
	return &Service{
		image:  image,
		health: health,
	}
}

// Provider 返回当前图片提供商名称
func (s *Service) Provider() string {
	return s.image.Name()
}

// Generate 根据提示词生成单张图片，返回 data URI 或远程 URL
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "image.Generate")
	defer span.End()

	if err := s.health.Check(ctx, "image", s.image); err != nil {
		metrics.ImageGenerationTotal.WithLabelValues(s.image.Name(), "unavailable").Inc()
		return "", errors.ErrProviderUnavailable.WithDetail(s.image.Name()).WithError(err)
	}

	start := time.Now()
	url, err := s.image.GenerateImage(ctx, prompt)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ImageGenerationTotal.WithLabelValues(s.image.Name(), status).Inc()
	metrics.ProviderCallTotal.WithLabelValues(s.image.Name(), "image", status).Inc()
	metrics.ProviderCallDuration.WithLabelValues(s.image.Name(), "image").Observe(elapsed.Seconds())

	if err != nil {
		return "", errors.ErrImageGenerationFailed.WithError(err)
	}
	return url, nil
}

// GenerateForParagraphs 并发为各段落生成插图并就地填充 ImageURL
// 单个段落失败只记日志不中断，失败段落的 ImageURL 保持为空
func (s *Service) GenerateForParagraphs(ctx context.Context, paragraphs []domain.Paragraph) {
	ctx, span := tracer.Start(ctx, "image.GenerateForParagraphs")
	defer span.End()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentImages)

	for i := range paragraphs {
		p := &paragraphs[i]
		g.Go(func() error {
			url, err := s.Generate(ctx, p.ImagePrompt)
			if err != nil {
				logger.Warn(ctx, "paragraph image generation failed",
					"paragraph_id", p.ID,
					"provider", s.image.Name(),
					"error", err.Error(),
				)
				return nil
			}
			p.ImageURL = url
			return nil
		})
	}

	// 任务自行吞掉错误，这里只等待收尾
	_ = g.Wait()
}
