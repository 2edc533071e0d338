package story

import (
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
	"github.com/pavithrakamath/story-telling-app/pkg/errors"
)

const (
	// fallbackPreface 纯文本回退且未检出摘要行时使用的兜底前言
	fallbackPreface = "A newly imagined tale."

	// fallbackParagraphText 段落数不足时的补齐文本
	fallbackParagraphText = "The tale went on, though some of its words were lost along the way."

	// minParagraphLen 纯文本回退中段落成段的最小长度
	minParagraphLen = 100
)

// ParsedStory 解析后的结构化故事
type ParsedStory struct {
	Preface    string
	Paragraphs []ParsedParagraph
}

// ParsedParagraph 解析后的单个段落
type ParsedParagraph struct {
	Text        string
	ImagePrompt string
}

// rawStory 严格形状校验用的中间结构
// 指针字段用于区分"字段缺失"与"空字符串"
type rawStory struct {
	Summary    *string        `json:"summary"`
	Preface    *string        `json:"preface"`
	Paragraphs []rawParagraph `json:"paragraphs"`
}

type rawParagraph struct {
	Text        *string `json:"text"`
	ImagePrompt *string `json:"imagePrompt"`
}

// ParseStory 对模型原始输出执行解析回退级联
// 策略按序尝试，首个成功者胜出；返回值中的策略名用于指标上报。
// 后置条件：返回的段落数恰好等于 want（不足补齐、多余截断）
func ParseStory(raw string, genre domain.Genre, want int) (*ParsedStory, string, error) {
	strategies := []struct {
		name string
		fn   func(string) (*ParsedStory, error)
	}{
		{"direct", parseDirect},
		{"substring", parseSubstring},
		{"cleanup", parseCleanup},
		{"plaintext", func(s string) (*ParsedStory, error) { return parsePlainText(s, genre) }},
	}

	for _, st := range strategies {
		parsed, err := st.fn(raw)
		if err != nil {
			continue
		}
		reconcileCount(parsed, genre, want)
		return parsed, st.name, nil
	}

	return nil, "", errors.ErrInvalidResponse.WithDetail("no parse strategy produced a usable story")
}

// parseDirect 整串去空白后严格解析
func parseDirect(raw string) (*ParsedStory, error) {
	return decodeStory(strings.TrimSpace(raw))
}

// parseSubstring 贪婪截取首个 { 到最后一个 } 再解析
func parseSubstring(raw string) (*ParsedStory, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no json object span found")
	}
	return decodeStory(raw[start : end+1])
}

// parseCleanup 去掉 markdown 代码栅栏与包裹文本后解析
func parseCleanup(raw string) (*ParsedStory, error) {
	return decodeStory(stripFences(raw, "{", "}"))
}

// stripFences 去除代码栅栏并截取 open 到 close 之间的内容
func stripFences(raw, open, close string) string {
	s := strings.TrimSpace(raw)

	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		// 跳过栅栏上的语言标记（如 json）
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			first := strings.TrimSpace(s[:nl])
			if first != "" && !strings.Contains(first, open) {
				s = s[nl+1:]
			}
		}
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}

	start := strings.Index(s, open)
	end := strings.LastIndex(s, close)
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

// decodeStory 解析并做结构校验：
// 必须是对象，带字符串前言（summary 或 preface）与段落数组，
// 每个段落都有字符串 text 与 imagePrompt
func decodeStory(jsonText string) (*ParsedStory, error) {
	if jsonText == "" {
		return nil, fmt.Errorf("empty input")
	}

	var rs rawStory
	dec := json.NewDecoder(strings.NewReader(jsonText))
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("failed to decode story json: %w", err)
	}

	preface := ""
	switch {
	case rs.Summary != nil:
		preface = *rs.Summary
	case rs.Preface != nil:
		preface = *rs.Preface
	default:
		return nil, fmt.Errorf("story json missing summary")
	}

	if len(rs.Paragraphs) == 0 {
		return nil, fmt.Errorf("story json missing paragraphs")
	}

	out := &ParsedStory{Preface: preface}
	for i, p := range rs.Paragraphs {
		if p.Text == nil || p.ImagePrompt == nil {
			return nil, fmt.Errorf("paragraph %d missing text or imagePrompt", i)
		}
		if strings.TrimSpace(*p.Text) == "" {
			return nil, fmt.Errorf("paragraph %d has empty text", i)
		}
		out.Paragraphs = append(out.Paragraphs, ParsedParagraph{
			Text:        *p.Text,
			ImagePrompt: *p.ImagePrompt,
		})
	}
	return out, nil
}

// parsePlainText 把原始输出当作散文处理
// 可选识别 summary:/preface:/story: 标签行作为前言，
// 其余行按空行或"终结标点+最小长度"累积切分为段落
func parsePlainText(raw string, genre domain.Genre) (*ParsedStory, error) {
	out := &ParsedStory{Preface: fallbackPreface}

	var buf strings.Builder
	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text == "" {
			return
		}
		out.Paragraphs = append(out.Paragraphs, ParsedParagraph{
			Text:        text,
			ImagePrompt: domain.FallbackImagePrompt(text, genre),
		})
	}

	prefaceSeen := false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			flush()
			continue
		}

		if !prefaceSeen {
			if p, ok := prefaceLabel(line); ok {
				out.Preface = p
				prefaceSeen = true
				continue
			}
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(line)

		if endsWithTerminal(buf.String()) && buf.Len() > minParagraphLen {
			flush()
		}
	}
	flush()

	if len(out.Paragraphs) == 0 {
		return nil, fmt.Errorf("no paragraphs recovered from plain text")
	}
	return out, nil
}

// prefaceLabel 检测摘要标签行，返回标签后的内容
func prefaceLabel(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, label := range []string{"summary:", "preface:", "story:"} {
		if strings.HasPrefix(lower, label) {
			return strings.TrimSpace(line[len(label):]), true
		}
	}
	return "", false
}

// endsWithTerminal 判断是否以句子终结标点结尾
func endsWithTerminal(s string) bool {
	s = strings.TrimRight(s, " \"'”’")
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// reconcileCount 补齐或截断段落数至恰好 want
func reconcileCount(parsed *ParsedStory, genre domain.Genre, want int) {
	if want <= 0 {
		return
	}
	for len(parsed.Paragraphs) < want {
		parsed.Paragraphs = append(parsed.Paragraphs, ParsedParagraph{
			Text:        fallbackParagraphText,
			ImagePrompt: domain.FallbackImagePrompt(fallbackParagraphText, genre),
		})
	}
	if len(parsed.Paragraphs) > want {
		parsed.Paragraphs = parsed.Paragraphs[:want]
	}
}
