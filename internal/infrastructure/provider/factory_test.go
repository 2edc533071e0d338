package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavithrakamath/story-telling-app/internal/config"
)

func TestNewTextProviderOllama(t *testing.T) {
	cfg := &config.ProvidersConfig{
		Text:   "ollama",
		Ollama: config.OllamaConfig{BaseURL: "http://localhost:11434", Model: "llama3"},
	}

	p, err := NewTextProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
}

func TestNewTextProviderNameNormalized(t *testing.T) {
	cfg := &config.ProvidersConfig{Text: "  Ollama "}

	p, err := NewTextProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
}

func TestNewTextProviderUnsupported(t *testing.T) {
	cfg := &config.ProvidersConfig{Text: "gpt4all"}

	_, err := NewTextProvider(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported text provider")
}

func TestNewTextProviderHuggingFaceRequiresKey(t *testing.T) {
	cfg := &config.ProvidersConfig{Text: "huggingface"}

	_, err := NewTextProvider(context.Background(), cfg)
	require.Error(t, err)
}

func TestNewImageProviderDefaultsToPlaceholder(t *testing.T) {
	p, err := NewImageProvider(context.Background(), &config.ProvidersConfig{Image: ""})
	require.NoError(t, err)
	assert.Equal(t, "placeholder", p.Name())

	p, err = NewImageProvider(context.Background(), &config.ProvidersConfig{Image: "placeholder"})
	require.NoError(t, err)
	assert.Equal(t, "placeholder", p.Name())
}

func TestNewImageProviderReplicateRequiresKey(t *testing.T) {
	cfg := &config.ProvidersConfig{Image: "replicate"}

	_, err := NewImageProvider(context.Background(), cfg)
	require.Error(t, err)
}

func TestNewImageProviderUnsupported(t *testing.T) {
	cfg := &config.ProvidersConfig{Image: "dalle"}

	_, err := NewImageProvider(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image provider")
}
