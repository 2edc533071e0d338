// Package story 实现故事生成的应用层逻辑
package story

import (
	"fmt"
	"strings"

	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
)

// 结构化输出指令
// 文本提供商没有结构化输出保证，解析层（parse.go）兜底
const (
	storyJSONInstruction = `Respond with ONLY a JSON object, no text before or after it, in exactly this shape:
{"summary": "<one sentence summary>", "paragraphs": [{"text": "<paragraph text>", "imagePrompt": "<visual scene description>"}]}`

	paragraphsJSONInstruction = `Respond with ONLY a JSON array, no text before or after it, in exactly this shape:
[{"text": "<paragraph text>", "imagePrompt": "<visual scene description>"}]`
)

// BuildStoryPrompt 拼装初次生成的提示词
func BuildStoryPrompt(req *domain.Request) string {
	var b strings.Builder

	b.WriteString(domain.GuidelineFor(req.Genre))
	b.WriteString("\n\n")

	if len(req.CharacterNames) > 0 {
		fmt.Fprintf(&b, "The story features %d main characters named: %s.\n",
			req.Characters.Int(), strings.Join(req.CharacterNames, ", "))
	} else {
		fmt.Fprintf(&b, "Invent %d distinct named main characters.\n", req.Characters.Int())
	}

	fmt.Fprintf(&b, "Write exactly %d paragraphs. Each paragraph must be 4-5 sentences long.\n", req.Paragraphs.Int())
	b.WriteString("For every paragraph also provide an imagePrompt describing its key visual scene.\n\n")

	b.WriteString(storyJSONInstruction)
	return b.String()
}

// BuildRegenerateParagraphPrompt 拼装单段重写的提示词
// 前后段落原文作为上下文，保证重写后的段落能衔接
func BuildRegenerateParagraphPrompt(genre domain.Genre, current string, previous, following []string) string {
	var b strings.Builder

	b.WriteString(domain.GuidelineFor(genre))
	b.WriteString("\n\n")

	if len(previous) > 0 {
		b.WriteString("The story so far:\n")
		for _, p := range previous {
			b.WriteString(p)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("Rewrite the following paragraph. Keep it consistent with the surrounding story, 4-5 sentences long:\n")
	b.WriteString(current)
	b.WriteString("\n\n")

	if len(following) > 0 {
		b.WriteString("The story continues afterwards with:\n")
		for _, p := range following {
			b.WriteString(p)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("Return exactly one rewritten paragraph with its imagePrompt.\n")
	b.WriteString(paragraphsJSONInstruction)
	return b.String()
}

// BuildContinuePrompt 拼装续写的提示词
func BuildContinuePrompt(genre domain.Genre, existing []string, additional int) string {
	var b strings.Builder

	b.WriteString(domain.GuidelineFor(genre))
	b.WriteString("\n\n")

	b.WriteString("The story so far:\n")
	for _, p := range existing {
		b.WriteString(p)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Continue the story with exactly %d new paragraphs. Each paragraph must be 4-5 sentences long and flow naturally from the text above.\n", additional)
	b.WriteString("For every new paragraph also provide an imagePrompt describing its key visual scene.\n\n")

	b.WriteString(paragraphsJSONInstruction)
	return b.String()
}
