// Package story 实现故事生成的应用层编排
package story

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/pavithrakamath/story-telling-app/internal/config"
	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/provider"
	"github.com/pavithrakamath/story-telling-app/pkg/errors"
	"github.com/pavithrakamath/story-telling-app/pkg/logger"
	"github.com/pavithrakamath/story-telling-app/pkg/metrics"
)

var tracer = otel.Tracer("application.story")

// Service 故事生成服务
type Service struct {
	text   provider.TextProvider
	health *provider.HealthCache
	genCfg config.GenerationConfig
}

// NewService 创建故事生成服务
func NewService(text provider.TextProvider, health *provider.HealthCache, genCfg config.GenerationConfig) *Service {
	return &Service{
		text:   text,
		health: health,
		genCfg: genCfg,
	}
}

// options 把题材参数与全局覆盖合并为提供商采样参数
func (s *Service) options(genre domain.Genre) provider.GenerateOptions {
	cfg := domain.ConfigFor(genre)
	opts := provider.GenerateOptions{
		Temperature:   cfg.Temperature,
		MaxTokens:     cfg.MaxTokens,
		TopP:          cfg.TopP,
		RepeatPenalty: cfg.RepeatPenalty,
	}
	if s.genCfg.Temperature != nil {
		opts.Temperature = *s.genCfg.Temperature
	}
	if s.genCfg.MaxTokens != nil {
		opts.MaxTokens = *s.genCfg.MaxTokens
	}
	return opts
}

// generate 单次文本生成调用，带健康检查与指标上报
func (s *Service) generate(ctx context.Context, prompt string, opts provider.GenerateOptions) (string, error) {
	if err := s.health.Check(ctx, "text", s.text); err != nil {
		return "", errors.ErrProviderUnavailable.WithDetail(s.text.Name()).WithError(err)
	}

	start := time.Now()
	raw, err := s.text.GenerateText(ctx, prompt, opts)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ProviderCallTotal.WithLabelValues(s.text.Name(), "text", status).Inc()
	metrics.ProviderCallDuration.WithLabelValues(s.text.Name(), "text").Observe(elapsed.Seconds())

	if err != nil {
		return "", errors.ErrStoryGenerationFailed.WithError(err)
	}
	return raw, nil
}

// Generate 根据请求生成一个完整故事
// 段落 ID 从 1 开始按顺序分配；每个段落都保证有非空 imagePrompt
func (s *Service) Generate(ctx context.Context, req *domain.Request) (*domain.Story, error) {
	ctx, span := tracer.Start(ctx, "story.Generate")
	defer span.End()

	start := time.Now()
	story, err := s.doGenerate(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StoryGenerationTotal.WithLabelValues(string(req.Genre), status).Inc()
	metrics.StoryGenerationDuration.WithLabelValues(string(req.Genre)).Observe(time.Since(start).Seconds())

	return story, err
}

func (s *Service) doGenerate(ctx context.Context, req *domain.Request) (*domain.Story, error) {
	storyID := uuid.NewString()
	ctx = logger.WithContext(ctx, logger.StoryIDKey, storyID)

	prompt := BuildStoryPrompt(req)

	raw, err := s.generate(ctx, prompt, s.options(req.Genre))
	if err != nil {
		return nil, err
	}

	want := req.Paragraphs.Int()
	parsed, strategy, err := ParseStory(raw, req.Genre, want)
	if err != nil {
		return nil, err
	}
	metrics.StoryParseStrategyTotal.WithLabelValues(strategy).Inc()
	if strategy != "direct" {
		logger.Warn(ctx, "story parse fell back",
			"strategy", strategy,
			"genre", req.Genre,
		)
	}

	story := &domain.Story{
		ID:         storyID,
		Preface:    parsed.Preface,
		Genre:      req.Genre,
		Characters: req.Characters.Int(),
		Paragraphs: make([]domain.Paragraph, 0, len(parsed.Paragraphs)),
	}
	for i, p := range parsed.Paragraphs {
		story.Paragraphs = append(story.Paragraphs, domain.Paragraph{
			ID:          i + 1,
			Text:        p.Text,
			ImagePrompt: finalImagePrompt(p, req.Genre),
		})
	}
	return story, nil
}

// RegenerateParagraph 重新生成故事中的单个段落，保留原段落 ID
func (s *Service) RegenerateParagraph(ctx context.Context, genre domain.Genre, id int, current string, previous, following []string) (*domain.Paragraph, error) {
	ctx, span := tracer.Start(ctx, "story.RegenerateParagraph")
	defer span.End()

	prompt := BuildRegenerateParagraphPrompt(genre, current, previous, following)
	raw, err := s.generate(ctx, prompt, s.options(genre))
	if err != nil {
		return nil, err
	}

	paras, strategy, err := ParseParagraphs(raw, genre, 1)
	if err != nil {
		return nil, err
	}
	metrics.StoryParseStrategyTotal.WithLabelValues(strategy).Inc()

	p := paras[0]
	return &domain.Paragraph{
		ID:          id,
		Text:        p.Text,
		ImagePrompt: finalImagePrompt(p, genre),
	}, nil
}

// Continue 为既有故事续写若干段落
// 新段落 ID 紧接既有段落之后递增；additional 为 0 时使用默认值
func (s *Service) Continue(ctx context.Context, genre domain.Genre, existing []string, additional int) ([]domain.Paragraph, error) {
	ctx, span := tracer.Start(ctx, "story.Continue")
	defer span.End()

	if additional <= 0 {
		additional = domain.DefaultContinueParagraphs
	}

	prompt := BuildContinuePrompt(genre, existing, additional)
	raw, err := s.generate(ctx, prompt, s.options(genre))
	if err != nil {
		return nil, err
	}

	parsed, strategy, err := ParseParagraphs(raw, genre, additional)
	if err != nil {
		return nil, err
	}
	metrics.StoryParseStrategyTotal.WithLabelValues(strategy).Inc()

	out := make([]domain.Paragraph, 0, len(parsed))
	for i, p := range parsed {
		out = append(out, domain.Paragraph{
			ID:          len(existing) + i + 1,
			Text:        p.Text,
			ImagePrompt: finalImagePrompt(p, genre),
		})
	}
	return out, nil
}

// finalImagePrompt 对提供商给出的提示词做风格增强，缺失时走兜底合成
func finalImagePrompt(p ParsedParagraph, genre domain.Genre) string {
	if p.ImagePrompt != "" {
		return domain.EnhanceImagePrompt(p.ImagePrompt, genre)
	}
	return domain.FallbackImagePrompt(p.Text, genre)
}
