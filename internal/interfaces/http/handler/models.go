package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pavithrakamath/story-telling-app/internal/interfaces/http/dto"
	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/provider"
	"github.com/pavithrakamath/story-telling-app/pkg/logger"
)

// ModelsHandler 模型列表处理器
type ModelsHandler struct {
	text provider.TextProvider
}

// NewModelsHandler 创建模型列表处理器
func NewModelsHandler(text provider.TextProvider) *ModelsHandler {
	return &ModelsHandler{text: text}
}

// ModelsResponse 模型列表响应
type ModelsResponse struct {
	Provider string   `json:"provider"`
	Models   []string `json:"models"`
}

// List 列出当前文本提供商可用的模型
// @Summary 列出可用模型
// @Description 仅支持可枚举模型的提供商，其余返回空列表
// @Tags System
// @Produce json
// @Success 200 {object} dto.Response[ModelsResponse]
// @Router /v1/models [get]
func (h *ModelsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	resp := ModelsResponse{
		Provider: h.text.Name(),
		Models:   []string{},
	}

	if lister, ok := h.text.(provider.ModelLister); ok {
		models, err := lister.ListModels(ctx)
		if err != nil {
			logger.Error(ctx, "failed to list models", err, "provider", h.text.Name())
			dto.FromAppError(c, err)
			return
		}
		resp.Models = models
	}

	dto.Success(c, resp)
}
