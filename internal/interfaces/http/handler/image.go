package handler

import (
	"github.com/gin-gonic/gin"

	imageapp "github.com/pavithrakamath/story-telling-app/internal/application/image"
	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
	"github.com/pavithrakamath/story-telling-app/internal/interfaces/http/dto"
	"github.com/pavithrakamath/story-telling-app/pkg/logger"
)

// ImageHandler 图片生成处理器
type ImageHandler struct {
	images *imageapp.Service
}

// NewImageHandler 创建图片生成处理器
func NewImageHandler(images *imageapp.Service) *ImageHandler {
	return &ImageHandler{images: images}
}

// Generate 生成单张图片
// @Summary 生成图片
// @Description 根据提示词生成单张插图，传入题材时附加风格增强
// @Tags Images
// @Accept json
// @Produce json
// @Param body body dto.GenerateImageRequest true "生成参数"
// @Success 200 {object} dto.Response[dto.GenerateImageResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/images/generate [post]
func (h *ImageHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Prompt == "" {
		dto.ValidationFailed(c, []dto.FieldError{{Field: "prompt", Message: "prompt is required"}})
		return
	}

	prompt := req.Prompt
	if req.Genre != "" {
		genre := domain.Genre(req.Genre)
		if !domain.IsValidGenre(genre) {
			dto.ValidationFailed(c, []dto.FieldError{{Field: "genre", Message: "unknown genre"}})
			return
		}
		prompt = domain.EnhanceImagePrompt(prompt, genre)
	}

	url, err := h.images.Generate(ctx, prompt)
	if err != nil {
		logger.Error(ctx, "failed to generate image", err, "provider", h.images.Provider())
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.GenerateImageResponse{
		ImageURL:    url,
		ParagraphID: req.ParagraphID,
		Provider:    h.images.Provider(),
	})
}
