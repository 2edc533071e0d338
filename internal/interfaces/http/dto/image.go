package dto

// GenerateImageRequest 生成图片请求
type GenerateImageRequest struct {
	// Prompt 原始图片提示词
	Prompt string `json:"prompt"`
	// ParagraphID 该图片对应的段落，响应中原样返回
	ParagraphID int `json:"paragraphId,omitempty"`
	// Genre 用于风格增强的题材，可为空
	Genre string `json:"genre,omitempty"`
}

// GenerateImageResponse 生成图片响应
// ImageURL 为 data URI 或远程图片地址
type GenerateImageResponse struct {
	ImageURL    string `json:"imageUrl"`
	ParagraphID int    `json:"paragraphId,omitempty"`
	Provider    string `json:"provider"`
}
