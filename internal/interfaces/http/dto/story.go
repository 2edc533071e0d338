package dto

import (
	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
)

// GenerateStoryRequest 生成故事请求
// characters/paragraphs 兼容数字与数字字符串两种写法
type GenerateStoryRequest struct {
	Genre          string         `json:"genre"`
	Characters     domain.FlexInt `json:"characters"`
	CharacterNames []string       `json:"characterNames,omitempty"`
	Paragraphs     domain.FlexInt `json:"paragraphs"`
}

// ToDomain 转换为领域请求
func (r *GenerateStoryRequest) ToDomain() *domain.Request {
	return &domain.Request{
		Genre:          domain.Genre(r.Genre),
		Characters:     r.Characters,
		CharacterNames: r.CharacterNames,
		Paragraphs:     r.Paragraphs,
	}
}

// ParagraphResponse 段落响应
type ParagraphResponse struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	ImagePrompt string `json:"imagePrompt"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// StoryResponse 故事响应
type StoryResponse struct {
	ID         string              `json:"storyId"`
	Preface    string              `json:"preface"`
	Paragraphs []ParagraphResponse `json:"paragraphs"`
	Genre      string              `json:"genre"`
	Characters int                 `json:"characters"`
}

// FromStory 将领域故事转换为响应
func FromStory(s *domain.Story) StoryResponse {
	resp := StoryResponse{
		ID:         s.ID,
		Preface:    s.Preface,
		Genre:      string(s.Genre),
		Characters: s.Characters,
		Paragraphs: make([]ParagraphResponse, 0, len(s.Paragraphs)),
	}
	for _, p := range s.Paragraphs {
		resp.Paragraphs = append(resp.Paragraphs, FromParagraph(p))
	}
	return resp
}

// FromParagraph 将领域段落转换为响应
func FromParagraph(p domain.Paragraph) ParagraphResponse {
	return ParagraphResponse{
		ID:          p.ID,
		Text:        p.Text,
		ImagePrompt: p.ImagePrompt,
		ImageURL:    p.ImageURL,
	}
}

// RegenerateParagraphRequest 重新生成单个段落请求
type RegenerateParagraphRequest struct {
	// StoryID 客户端持有的故事标识，服务端无状态，仅透传
	StoryID     string `json:"storyId,omitempty"`
	Genre       string `json:"genre"`
	ParagraphID int    `json:"paragraphId"`
	// CurrentParagraph 需要重写的段落原文
	CurrentParagraph string `json:"currentParagraph"`
	// PreviousParagraphs/FollowingParagraphs 用作上下文的前后段落
	PreviousParagraphs  []string `json:"previousParagraphs,omitempty"`
	FollowingParagraphs []string `json:"followingParagraphs,omitempty"`
}

// RegenerateParagraphResponse 重新生成段落响应
type RegenerateParagraphResponse struct {
	Paragraph ParagraphResponse `json:"paragraph"`
}

// ContinueStoryRequest 续写故事请求
type ContinueStoryRequest struct {
	StoryID string `json:"storyId,omitempty"`
	Genre   string `json:"genre"`
	// ExistingParagraphs 既有故事的全部段落文本
	ExistingParagraphs []string `json:"existingParagraphs"`
	// AdditionalParagraphs 追加的段落数，0 表示使用默认值
	AdditionalParagraphs domain.FlexInt `json:"additionalParagraphs,omitempty"`
}

// ContinueStoryResponse 续写故事响应
type ContinueStoryResponse struct {
	NewParagraphs []ParagraphResponse `json:"newParagraphs"`
}
