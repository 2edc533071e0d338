package story

import (
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
	"github.com/pavithrakamath/story-telling-app/pkg/errors"
)

// ParseParagraphs 解析仅含段落数组的模型输出（重写/续写场景）
// 与 ParseStory 同构的回退级联，最终段落数恰好等于 want
func ParseParagraphs(raw string, genre domain.Genre, want int) ([]ParsedParagraph, string, error) {
	strategies := []struct {
		name string
		fn   func(string) ([]ParsedParagraph, error)
	}{
		{"direct", func(s string) ([]ParsedParagraph, error) { return decodeParagraphs(strings.TrimSpace(s)) }},
		{"substring", parseParagraphsSubstring},
		{"cleanup", func(s string) ([]ParsedParagraph, error) { return decodeParagraphs(stripFences(s, "[", "]")) }},
		{"plaintext", func(s string) ([]ParsedParagraph, error) { return paragraphsFromPlainText(s, genre) }},
	}

	for _, st := range strategies {
		paras, err := st.fn(raw)
		if err != nil {
			continue
		}
		paras = reconcileParagraphCount(paras, genre, want)
		return paras, st.name, nil
	}

	return nil, "", errors.ErrInvalidResponse.WithDetail("no parse strategy produced usable paragraphs")
}

// parseParagraphsSubstring 截取首个 [ 到最后一个 ] 再解析
func parseParagraphsSubstring(raw string) ([]ParsedParagraph, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no json array span found")
	}
	return decodeParagraphs(raw[start : end+1])
}

// decodeParagraphs 解析段落数组并校验每项形状
func decodeParagraphs(jsonText string) ([]ParsedParagraph, error) {
	if jsonText == "" {
		return nil, fmt.Errorf("empty input")
	}

	var rps []rawParagraph
	if err := json.Unmarshal([]byte(jsonText), &rps); err != nil {
		// 模型偶尔仍返回 {summary, paragraphs} 对象，兼容之
		if story, serr := decodeStory(jsonText); serr == nil {
			return story.Paragraphs, nil
		}
		return nil, fmt.Errorf("failed to decode paragraphs json: %w", err)
	}
	if len(rps) == 0 {
		return nil, fmt.Errorf("empty paragraphs array")
	}

	out := make([]ParsedParagraph, 0, len(rps))
	for i, p := range rps {
		if p.Text == nil || p.ImagePrompt == nil {
			return nil, fmt.Errorf("paragraph %d missing text or imagePrompt", i)
		}
		if strings.TrimSpace(*p.Text) == "" {
			return nil, fmt.Errorf("paragraph %d has empty text", i)
		}
		out = append(out, ParsedParagraph{Text: *p.Text, ImagePrompt: *p.ImagePrompt})
	}
	return out, nil
}

// paragraphsFromPlainText 纯文本回退，复用故事级的段落切分
func paragraphsFromPlainText(raw string, genre domain.Genre) ([]ParsedParagraph, error) {
	parsed, err := parsePlainText(raw, genre)
	if err != nil {
		return nil, err
	}
	return parsed.Paragraphs, nil
}

// reconcileParagraphCount 补齐或截断至恰好 want
func reconcileParagraphCount(paras []ParsedParagraph, genre domain.Genre, want int) []ParsedParagraph {
	if want <= 0 {
		return paras
	}
	for len(paras) < want {
		paras = append(paras, ParsedParagraph{
			Text:        fallbackParagraphText,
			ImagePrompt: domain.FallbackImagePrompt(fallbackParagraphText, genre),
		})
	}
	if len(paras) > want {
		paras = paras[:want]
	}
	return paras
}
