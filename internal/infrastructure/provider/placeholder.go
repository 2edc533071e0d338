package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"unicode/utf8"
)

// placeholderPalette 占位图固定配色
var placeholderPalette = []string{
	"#4A6FA5", "#6B4E9B", "#A5504A", "#3E8E6C", "#8E6C3E", "#5A5A7A",
}

const placeholderPromptPreview = 48

// PlaceholderProvider 确定性占位图提供商
// 不发起任何网络调用，把提示词渲染进一张小 SVG
type PlaceholderProvider struct{}

// NewPlaceholderProvider 创建占位图提供商
func NewPlaceholderProvider() *PlaceholderProvider {
	return &PlaceholderProvider{}
}

// Name 返回提供商名称
func (p *PlaceholderProvider) Name() string {
	return "placeholder"
}

// GenerateImage 合成内嵌截断提示词的 SVG data URI
// 同一提示词总是得到同一张图
func (p *PlaceholderProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	// 按 rune 截断，避免把多字节字符切成非法 UTF-8
	preview := prompt
	if utf8.RuneCountInString(preview) > placeholderPromptPreview {
		preview = string([]rune(preview)[:placeholderPromptPreview]) + "..."
	}

	color := placeholderPalette[paletteIndex(prompt)]
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="512" height="320">`+
			`<rect width="512" height="320" fill="%s"/>`+
			`<text x="50%%" y="50%%" fill="#ffffff" font-family="sans-serif" font-size="16" text-anchor="middle" dominant-baseline="middle">%s</text>`+
			`</svg>`,
		color, html.EscapeString(preview),
	)

	encoded := base64.StdEncoding.EncodeToString([]byte(svg))
	return "data:image/svg+xml;base64," + encoded, nil
}

// CheckHealth 占位图提供商永远可用
func (p *PlaceholderProvider) CheckHealth(ctx context.Context) error {
	return nil
}

// paletteIndex 由提示词内容确定配色下标
func paletteIndex(prompt string) int {
	sum := 0
	for _, b := range []byte(prompt) {
		sum += int(b)
	}
	return sum % len(placeholderPalette)
}
