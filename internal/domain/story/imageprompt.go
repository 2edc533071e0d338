package story

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// QualitySuffix 所有图片提示词统一附加的质量后缀
	QualitySuffix = "high quality, 8k resolution"

	// fallbackPromptPreview 兜底提示词中段落文本的最大预览长度
	fallbackPromptPreview = 100
)

// visualKeywordRe 粗略匹配"画面感"用词，用于挑选段落中最适合作画的句子
// 纯启发式，选不中时退回段落开头
var visualKeywordRe = regexp.MustCompile(`(?i)\b(saw|see[ns]?|look(ed|ing)?|watch(ed|ing)?|appear(ed|s)?|glow(ed|ing)?|shimmer(ed|ing)?|tower(ed|ing)?|stood|silhouette|light|shadow|color|colour|sky|landscape|mountain|forest|castle|city|ocean|river|creature|dragon|ship|star[s]?|moon|sun)\b`)

// EnhanceImagePrompt 为图片提示词追加题材风格后缀与质量后缀
// 重复调用会重复追加，属预期行为而非缺陷
func EnhanceImagePrompt(prompt string, genre Genre) string {
	return strings.TrimSpace(prompt) + ", " + ImageStyleFor(genre) + ", " + QualitySuffix
}

// FallbackImagePrompt 在提供商未返回 imagePrompt 时合成一个
// 取段落中画面感最强的句子做预览，截断后套用 Enhance
func FallbackImagePrompt(paragraphText string, genre Genre) string {
	base := visualSentence(paragraphText)
	if base == "" {
		base = strings.TrimSpace(paragraphText)
	}

	// 按 rune 截断，避免把多字节字符切成非法 UTF-8
	if utf8.RuneCountInString(base) > fallbackPromptPreview {
		base = string([]rune(base)[:fallbackPromptPreview]) + "..."
	}

	return EnhanceImagePrompt(string(genre)+" scene: "+base, genre)
}

// visualSentence 返回段落中首个命中视觉关键词的句子
func visualSentence(text string) string {
	for _, s := range splitSentences(text) {
		if visualKeywordRe.MatchString(s) {
			return s
		}
	}
	return ""
}

// splitSentences 按终结标点粗分句子
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}
