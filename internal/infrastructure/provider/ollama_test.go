package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavithrakamath/story-telling-app/internal/config"
)

func newOllamaTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OllamaProvider) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewOllamaProvider(config.OllamaConfig{
		BaseURL: srv.URL,
		Model:   "llama3",
		Timeout: 5 * time.Second,
	})
	return srv, p
}

func TestOllamaGenerateText(t *testing.T) {
	var got ollamaGenerateRequest
	_, p := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "once upon a time", Done: true})
	})

	out, err := p.GenerateText(context.Background(), "tell a story", GenerateOptions{
		Temperature:   0.9,
		MaxTokens:     2048,
		TopP:          0.95,
		RepeatPenalty: 1.1,
	})
	require.NoError(t, err)

	assert.Equal(t, "once upon a time", out)
	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "tell a story", got.Prompt)
	assert.False(t, got.Stream)
	assert.Equal(t, 0.9, got.Options["temperature"])
	assert.Equal(t, float64(2048), got.Options["num_predict"])
}

func TestOllamaGenerateTextHTTPError(t *testing.T) {
	_, p := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := p.GenerateText(context.Background(), "x", GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestOllamaCheckHealth(t *testing.T) {
	_, p := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[]}`))
	})

	assert.NoError(t, p.CheckHealth(context.Background()))
}

func TestOllamaCheckHealthUnreachable(t *testing.T) {
	p := NewOllamaProvider(config.OllamaConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	assert.Error(t, p.CheckHealth(context.Background()))
}

func TestOllamaListModels(t *testing.T) {
	_, p := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"mistral"}]}`))
	})

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3", "mistral"}, models)
}
