package story

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
	"github.com/pavithrakamath/story-telling-app/pkg/errors"
)

const validStoryJSON = `{
	"summary": "A knight seeks a lost crown.",
	"paragraphs": [
		{"text": "The knight rode north.", "imagePrompt": "a knight on horseback"},
		{"text": "The forest swallowed the road.", "imagePrompt": "a dark forest path"},
		{"text": "At dawn the crown gleamed.", "imagePrompt": "a golden crown at sunrise"}
	]
}`

func TestParseStoryDirect(t *testing.T) {
	parsed, strategy, err := ParseStory(validStoryJSON, domain.GenreFantasy, 3)
	require.NoError(t, err)

	assert.Equal(t, "direct", strategy)
	assert.Equal(t, "A knight seeks a lost crown.", parsed.Preface)
	require.Len(t, parsed.Paragraphs, 3)
	assert.Equal(t, "The knight rode north.", parsed.Paragraphs[0].Text)
	assert.Equal(t, "a knight on horseback", parsed.Paragraphs[0].ImagePrompt)
}

func TestParseStoryAcceptsPrefaceKey(t *testing.T) {
	raw := `{"preface": "Once upon a time.", "paragraphs": [{"text": "t", "imagePrompt": "p"}]}`

	parsed, strategy, err := ParseStory(raw, domain.GenreFantasy, 1)
	require.NoError(t, err)
	assert.Equal(t, "direct", strategy)
	assert.Equal(t, "Once upon a time.", parsed.Preface)
}

func TestParseStorySubstring(t *testing.T) {
	raw := "Sure! Here is your story:\n" + validStoryJSON + "\nHope you enjoy it!"

	parsed, strategy, err := ParseStory(raw, domain.GenreFantasy, 3)
	require.NoError(t, err)

	assert.Equal(t, "substring", strategy)
	assert.Equal(t, "A knight seeks a lost crown.", parsed.Preface)
	assert.Len(t, parsed.Paragraphs, 3)
}

func TestParseStoryFencedWithLeadingBrace(t *testing.T) {
	// 栅栏前的 { 让贪婪截取解码失败，栅栏清理策略兜住
	raw := "The response uses keys {summary, paragraphs}:\n```json\n" + validStoryJSON + "\n```"

	parsed, strategy, err := ParseStory(raw, domain.GenreFantasy, 3)
	require.NoError(t, err)

	assert.Equal(t, "cleanup", strategy)
	assert.Len(t, parsed.Paragraphs, 3)
}

func TestParseStoryPlainTextFallback(t *testing.T) {
	raw := "Summary: A ship is lost at sea.\n\n" +
		"The storm came without warning and the crew fought the rigging all night.\n\n" +
		"By morning the ship drifted toward a shore no chart had ever named."

	parsed, strategy, err := ParseStory(raw, domain.GenreAdventure, 2)
	require.NoError(t, err)

	assert.Equal(t, "plaintext", strategy)
	assert.Equal(t, "A ship is lost at sea.", parsed.Preface)
	require.Len(t, parsed.Paragraphs, 2)
	assert.Contains(t, parsed.Paragraphs[0].Text, "storm came without warning")
	// 纯文本回退必须合成 imagePrompt
	assert.NotEmpty(t, parsed.Paragraphs[0].ImagePrompt)
}

func TestParseStoryPlainTextWithoutLabel(t *testing.T) {
	raw := "The old house waited at the end of the lane.\n\nNobody had opened its door in thirty years."

	parsed, strategy, err := ParseStory(raw, domain.GenreHorror, 2)
	require.NoError(t, err)

	assert.Equal(t, "plaintext", strategy)
	assert.Equal(t, fallbackPreface, parsed.Preface)
	assert.Len(t, parsed.Paragraphs, 2)
}

func TestParseStoryPadsToWantedCount(t *testing.T) {
	parsed, _, err := ParseStory(validStoryJSON, domain.GenreFantasy, 5)
	require.NoError(t, err)

	require.Len(t, parsed.Paragraphs, 5)
	assert.Equal(t, fallbackParagraphText, parsed.Paragraphs[3].Text)
	assert.NotEmpty(t, parsed.Paragraphs[4].ImagePrompt)
}

func TestParseStoryTruncatesToWantedCount(t *testing.T) {
	parsed, _, err := ParseStory(validStoryJSON, domain.GenreFantasy, 2)
	require.NoError(t, err)

	require.Len(t, parsed.Paragraphs, 2)
	assert.Equal(t, "The knight rode north.", parsed.Paragraphs[0].Text)
	assert.Equal(t, "The forest swallowed the road.", parsed.Paragraphs[1].Text)
}

func TestParseStoryRejectsMissingFields(t *testing.T) {
	// 缺少 imagePrompt 的 JSON 对严格解码不可用，但作为纯文本仍可回收
	raw := `{"summary": "s", "paragraphs": [{"text": "only text"}]}`

	_, strategy, err := ParseStory(raw, domain.GenreFantasy, 1)
	require.NoError(t, err)
	assert.Equal(t, "plaintext", strategy)
}

func TestParseStoryRejectsEmptyParagraphText(t *testing.T) {
	// text 为空串的结构化候选不算有效，最终各段落文本必须非空
	raw := `{"summary": "s", "paragraphs": [{"text": "", "imagePrompt": "x"}, {"text": "The road ended.", "imagePrompt": "y"}]}`

	parsed, strategy, err := ParseStory(raw, domain.GenreFantasy, 2)
	require.NoError(t, err)
	assert.NotEqual(t, "direct", strategy)
	require.Len(t, parsed.Paragraphs, 2)
	for _, p := range parsed.Paragraphs {
		assert.NotEmpty(t, strings.TrimSpace(p.Text))
	}
}

func TestParseStoryUnusableInput(t *testing.T) {
	_, _, err := ParseStory("", domain.GenreFantasy, 3)
	require.Error(t, err)

	appErr := errors.AsAppError(err)
	assert.Equal(t, errors.CodeInvalidResponse, appErr.Code)
}

func TestParsePlainTextSplitsLongProse(t *testing.T) {
	// 无空行时按"终结标点+最小长度"切分
	sentence := strings.Repeat("The caravan pressed on through the dunes. ", 4)
	raw := sentence + "\n" + sentence

	parsed, err := parsePlainText(raw, domain.GenreAdventure)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(parsed.Paragraphs), 2)
	for _, p := range parsed.Paragraphs {
		assert.Greater(t, len(p.Text), minParagraphLen)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"language tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding prose", "here\n{\"a\":1}\nthere", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in, "{", "}"))
		})
	}
}
