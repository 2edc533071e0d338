// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	imageapp "github.com/pavithrakamath/story-telling-app/internal/application/image"
	storyapp "github.com/pavithrakamath/story-telling-app/internal/application/story"
	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
	"github.com/pavithrakamath/story-telling-app/internal/interfaces/http/dto"
	"github.com/pavithrakamath/story-telling-app/pkg/logger"
)

// StoryHandler 故事生成处理器
type StoryHandler struct {
	stories       *storyapp.Service
	images        *imageapp.Service
	imagesEnabled bool
}

// NewStoryHandler 创建故事生成处理器
// images 为 nil 或 imagesEnabled 为 false 时跳过段落插图
func NewStoryHandler(stories *storyapp.Service, images *imageapp.Service, imagesEnabled bool) *StoryHandler {
	return &StoryHandler{
		stories:       stories,
		images:        images,
		imagesEnabled: imagesEnabled,
	}
}

// Generate 生成故事
// @Summary 生成故事
// @Description 根据题材、角色数与段落数生成完整故事，可选为每段生成插图
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.GenerateStoryRequest true "生成参数"
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/stories/generate [post]
func (h *StoryHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	domainReq := req.ToDomain()
	if fields := validateRequest(domainReq); len(fields) > 0 {
		dto.ValidationFailed(c, fields)
		return
	}

	story, err := h.stories.Generate(ctx, domainReq)
	if err != nil {
		logger.Error(ctx, "failed to generate story", err, "genre", req.Genre)
		dto.FromAppError(c, err)
		return
	}

	if h.imagesEnabled && h.images != nil {
		h.images.GenerateForParagraphs(ctx, story.Paragraphs)
	}

	dto.Success(c, dto.FromStory(story))
}

// RegenerateParagraph 重新生成单个段落
// @Summary 重新生成段落
// @Description 在前后段落的上下文内重写指定段落，保留段落 ID
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.RegenerateParagraphRequest true "重生成参数"
// @Success 200 {object} dto.Response[dto.RegenerateParagraphResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/stories/regenerate-paragraph [post]
func (h *StoryHandler) RegenerateParagraph(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegenerateParagraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	genre := domain.Genre(req.Genre)
	if !domain.IsValidGenre(genre) {
		dto.ValidationFailed(c, []dto.FieldError{{Field: "genre", Message: "unknown genre"}})
		return
	}
	if req.CurrentParagraph == "" {
		dto.ValidationFailed(c, []dto.FieldError{{Field: "currentParagraph", Message: "current paragraph text is required"}})
		return
	}
	if req.ParagraphID < 1 {
		dto.ValidationFailed(c, []dto.FieldError{{Field: "paragraphId", Message: "paragraphId must be positive"}})
		return
	}

	para, err := h.stories.RegenerateParagraph(ctx, genre, req.ParagraphID, req.CurrentParagraph, req.PreviousParagraphs, req.FollowingParagraphs)
	if err != nil {
		logger.Error(ctx, "failed to regenerate paragraph", err, "genre", req.Genre, "paragraph_id", req.ParagraphID)
		dto.FromAppError(c, err)
		return
	}

	if h.imagesEnabled && h.images != nil {
		single := []domain.Paragraph{*para}
		h.images.GenerateForParagraphs(ctx, single)
		para = &single[0]
	}

	dto.Success(c, dto.RegenerateParagraphResponse{Paragraph: dto.FromParagraph(*para)})
}

// Continue 续写故事
// @Summary 续写故事
// @Description 在既有段落之后追加若干新段落
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.ContinueStoryRequest true "续写参数"
// @Success 200 {object} dto.Response[dto.ContinueStoryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/stories/continue [post]
func (h *StoryHandler) Continue(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ContinueStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	genre := domain.Genre(req.Genre)
	if !domain.IsValidGenre(genre) {
		dto.ValidationFailed(c, []dto.FieldError{{Field: "genre", Message: "unknown genre"}})
		return
	}
	if len(req.ExistingParagraphs) == 0 {
		dto.ValidationFailed(c, []dto.FieldError{{Field: "existingParagraphs", Message: "existing paragraphs are required"}})
		return
	}

	paras, err := h.stories.Continue(ctx, genre, req.ExistingParagraphs, req.AdditionalParagraphs.Int())
	if err != nil {
		logger.Error(ctx, "failed to continue story", err, "genre", req.Genre)
		dto.FromAppError(c, err)
		return
	}

	if h.imagesEnabled && h.images != nil {
		h.images.GenerateForParagraphs(ctx, paras)
	}

	resp := dto.ContinueStoryResponse{
		NewParagraphs: make([]dto.ParagraphResponse, 0, len(paras)),
	}
	for _, p := range paras {
		resp.NewParagraphs = append(resp.NewParagraphs, dto.FromParagraph(p))
	}
	dto.Success(c, resp)
}

// validateRequest 执行请求校验与角色名清洗
func validateRequest(req *domain.Request) []dto.FieldError {
	errs := storyapp.Validate(req)

	clean, nameErrs := storyapp.SanitizeNames(req.CharacterNames)
	errs = append(errs, nameErrs...)
	if len(errs) > 0 {
		out := make([]dto.FieldError, 0, len(errs))
		for _, e := range errs {
			out = append(out, dto.FieldError{Field: e.Field, Message: e.Message})
		}
		return out
	}

	req.CharacterNames = clean
	return nil
}
