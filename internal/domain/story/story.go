// Package story 定义故事领域实体
package story

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt 兼容数字与数字字符串两种 JSON 表示的整数
type FlexInt int

// UnmarshalJSON 实现宽松的整数解析
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid integer value %q", string(data))
	}
	*f = FlexInt(n)
	return nil
}

// MarshalJSON 输出标准 JSON 数字
func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// Int 返回原始整数值
func (f FlexInt) Int() int {
	return int(f)
}

// 请求参数边界
const (
	MinCharacters = 1
	MaxCharacters = 6
	MinParagraphs = 3
	MaxParagraphs = 10

	// MaxNameLength 单个角色名的最大长度（清洗后）
	MaxNameLength = 50

	// DefaultContinueParagraphs 续写时默认追加的段落数
	DefaultContinueParagraphs = 2
)

// Request 故事生成请求参数
type Request struct {
	Genre          Genre    `json:"genre"`
	Characters     FlexInt  `json:"characters"`
	CharacterNames []string `json:"characterNames,omitempty"`
	Paragraphs     FlexInt  `json:"paragraphs"`
}

// Paragraph 故事段落
// ID 在同一故事内唯一，按生成顺序递增
type Paragraph struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	ImagePrompt string `json:"imagePrompt"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Story 一次生成得到的完整故事，仅存在于内存中
type Story struct {
	ID         string      `json:"id"`
	Preface    string      `json:"preface"`
	Paragraphs []Paragraph `json:"paragraphs"`
	Genre      Genre       `json:"genre"`
	Characters int         `json:"characters"`
}
