package story

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/pavithrakamath/story-telling-app/internal/domain/story"
)

func TestBuildStoryPromptWithNames(t *testing.T) {
	req := &domain.Request{
		Genre:          domain.GenreMystery,
		Characters:     2,
		CharacterNames: []string{"Vera", "Olek"},
		Paragraphs:     4,
	}

	prompt := BuildStoryPrompt(req)

	assert.Contains(t, prompt, domain.GuidelineFor(domain.GenreMystery))
	assert.Contains(t, prompt, "Vera, Olek")
	assert.Contains(t, prompt, "Write exactly 4 paragraphs")
	assert.Contains(t, prompt, "ONLY a JSON object")
}

func TestBuildStoryPromptWithoutNames(t *testing.T) {
	req := &domain.Request{
		Genre:      domain.GenreSciFi,
		Characters: 3,
		Paragraphs: 5,
	}

	prompt := BuildStoryPrompt(req)
	assert.Contains(t, prompt, "Invent 3 distinct named main characters")
}

func TestBuildRegenerateParagraphPrompt(t *testing.T) {
	prompt := BuildRegenerateParagraphPrompt(
		domain.GenreHorror,
		"The lights went out.",
		[]string{"It began at dusk."},
		[]string{"Nobody spoke again."},
	)

	assert.Contains(t, prompt, "It began at dusk.")
	assert.Contains(t, prompt, "The lights went out.")
	assert.Contains(t, prompt, "Nobody spoke again.")
	assert.Contains(t, prompt, "exactly one rewritten paragraph")
	assert.Contains(t, prompt, "ONLY a JSON array")
}

func TestBuildContinuePrompt(t *testing.T) {
	prompt := BuildContinuePrompt(domain.GenreAdventure, []string{"First.", "Second."}, 2)

	assert.Contains(t, prompt, "First.")
	assert.Contains(t, prompt, "Second.")
	assert.Contains(t, prompt, "exactly 2 new paragraphs")
	assert.Contains(t, prompt, "ONLY a JSON array")
}
