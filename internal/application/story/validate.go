package story

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
)

// FieldError 校验失败的字段与原因
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// 角色名清洗规则：防止名字被回显进提示词或页面时携带注入内容
var (
	htmlTagRe      = regexp.MustCompile(`<[^>]*>`)
	jsSchemeRe     = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerRe = regexp.MustCompile(`(?i)\bon\w+\s*=`)
)

// Validate 校验故事生成请求，返回全部失败字段
func Validate(req *domain.Request) []FieldError {
	var errs []FieldError

	if !domain.IsValidGenre(req.Genre) {
		errs = append(errs, FieldError{
			Field:   "genre",
			Message: fmt.Sprintf("genre must be one of %v", domain.Genres()),
		})
	}

	chars := req.Characters.Int()
	if chars < domain.MinCharacters || chars > domain.MaxCharacters {
		errs = append(errs, FieldError{
			Field:   "characters",
			Message: fmt.Sprintf("characters must be between %d and %d", domain.MinCharacters, domain.MaxCharacters),
		})
	}

	paras := req.Paragraphs.Int()
	if paras < domain.MinParagraphs || paras > domain.MaxParagraphs {
		errs = append(errs, FieldError{
			Field:   "paragraphs",
			Message: fmt.Sprintf("paragraphs must be between %d and %d", domain.MinParagraphs, domain.MaxParagraphs),
		})
	}

	if len(req.CharacterNames) > 0 {
		if len(req.CharacterNames) != chars {
			errs = append(errs, FieldError{
				Field:   "characterNames",
				Message: fmt.Sprintf("characterNames length %d must equal characters %d", len(req.CharacterNames), chars),
			})
		}
		for i, name := range req.CharacterNames {
			if strings.TrimSpace(name) == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("characterNames[%d]", i),
					Message: "character name must not be empty",
				})
				continue
			}
			if utf8.RuneCountInString(name) > domain.MaxNameLength {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("characterNames[%d]", i),
					Message: fmt.Sprintf("character name must be at most %d characters", domain.MaxNameLength),
				})
			}
		}
	}

	return errs
}

// SanitizeName 清洗单个角色名
// 去除 HTML 标签、javascript: 协议、内联事件属性与空字节，并截断长度
func SanitizeName(name string) string {
	s := strings.ReplaceAll(name, "\x00", "")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = jsSchemeRe.ReplaceAllString(s, "")
	s = eventHandlerRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	// 按 rune 截断，避免产生非法 UTF-8
	if utf8.RuneCountInString(s) > domain.MaxNameLength {
		s = string([]rune(s)[:domain.MaxNameLength])
	}
	return s
}

// SanitizeNames 清洗全部角色名
// 清洗后出现空名视同校验失败处理
func SanitizeNames(names []string) ([]string, []FieldError) {
	if len(names) == 0 {
		return nil, nil
	}

	var errs []FieldError
	out := make([]string, 0, len(names))
	for i, name := range names {
		clean := SanitizeName(name)
		if clean == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("characterNames[%d]", i),
				Message: "character name is empty after sanitization",
			})
			continue
		}
		out = append(out, clean)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
