package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imageapp "github.com/pavithrakamath/story-telling-app/internal/application/image"
	storyapp "github.com/pavithrakamath/story-telling-app/internal/application/story"
	"github.com/pavithrakamath/story-telling-app/internal/config"
	"github.com/pavithrakamath/story-telling-app/internal/infrastructure/provider"
	"github.com/pavithrakamath/story-telling-app/internal/interfaces/http/dto"
)

const stubStoryJSON = `{
	"summary": "A crew crosses the void.",
	"paragraphs": [
		{"text": "The engines hummed.", "imagePrompt": "a starship bridge"},
		{"text": "A signal arrived.", "imagePrompt": "a glowing console"},
		{"text": "They changed course.", "imagePrompt": "a ship turning in space"}
	]
}`

// stubText 固定应答的文本提供商
type stubText struct {
	response  string
	err       error
	healthErr error
}

func (s *stubText) GenerateText(context.Context, string, provider.GenerateOptions) (string, error) {
	return s.response, s.err
}

func (s *stubText) CheckHealth(context.Context) error { return s.healthErr }

func (s *stubText) Name() string { return "stub" }

func newStoryRouter(t *testing.T, stub *stubText, withImages bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	health := provider.NewHealthCache(time.Minute)
	storySvc := storyapp.NewService(stub, health, config.GenerationConfig{})

	var imageSvc *imageapp.Service
	if withImages {
		imageSvc = imageapp.NewService(provider.NewPlaceholderProvider(), health)
	}

	h := NewStoryHandler(storySvc, imageSvc, withImages)

	r := gin.New()
	r.POST("/v1/stories/generate", h.Generate)
	r.POST("/v1/stories/regenerate-paragraph", h.RegenerateParagraph)
	r.POST("/v1/stories/continue", h.Continue)
	return r
}

func doJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateStoryEndpoint(t *testing.T) {
	r := newStoryRouter(t, &stubText{response: stubStoryJSON}, false)

	w := doJSON(r, "/v1/stories/generate", `{"genre":"scifi","characters":2,"paragraphs":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.StoryResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "A crew crosses the void.", resp.Data.Preface)
	require.Len(t, resp.Data.Paragraphs, 3)
	assert.Equal(t, 1, resp.Data.Paragraphs[0].ID)
	assert.Empty(t, resp.Data.Paragraphs[0].ImageURL)
}

func TestGenerateStoryWithImages(t *testing.T) {
	r := newStoryRouter(t, &stubText{response: stubStoryJSON}, true)

	w := doJSON(r, "/v1/stories/generate", `{"genre":"scifi","characters":2,"paragraphs":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.StoryResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, p := range resp.Data.Paragraphs {
		assert.True(t, strings.HasPrefix(p.ImageURL, "data:image/svg+xml;base64,"))
	}
}

func TestGenerateStoryCoercesStringNumbers(t *testing.T) {
	r := newStoryRouter(t, &stubText{response: stubStoryJSON}, false)

	w := doJSON(r, "/v1/stories/generate", `{"genre":"scifi","characters":"2","paragraphs":"3"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateStoryValidationFailure(t *testing.T) {
	r := newStoryRouter(t, &stubText{response: stubStoryJSON}, false)

	tests := []struct {
		name string
		body string
	}{
		{"unknown genre", `{"genre":"western","characters":2,"paragraphs":3}`},
		{"too many characters", `{"genre":"scifi","characters":7,"paragraphs":3}`},
		{"too few paragraphs", `{"genre":"scifi","characters":2,"paragraphs":2}`},
		{"name count mismatch", `{"genre":"scifi","characters":2,"characterNames":["A"],"paragraphs":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, "/v1/stories/generate", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.NotEmpty(t, resp.Error.Fields)
		})
	}
}

func TestGenerateStoryMalformedBody(t *testing.T) {
	r := newStoryRouter(t, &stubText{response: stubStoryJSON}, false)

	w := doJSON(r, "/v1/stories/generate", `{"genre":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateStoryProviderUnavailable(t *testing.T) {
	r := newStoryRouter(t, &stubText{healthErr: fmt.Errorf("down")}, false)

	w := doJSON(r, "/v1/stories/generate", `{"genre":"scifi","characters":2,"paragraphs":3}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGenerateStoryProviderFailure(t *testing.T) {
	r := newStoryRouter(t, &stubText{err: fmt.Errorf("boom")}, false)

	w := doJSON(r, "/v1/stories/generate", `{"genre":"scifi","characters":2,"paragraphs":3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRegenerateParagraphEndpoint(t *testing.T) {
	r := newStoryRouter(t, &stubText{response: `[{"text":"Rewritten.","imagePrompt":"scene"}]`}, false)

	w := doJSON(r, "/v1/stories/regenerate-paragraph",
		`{"genre":"fantasy","paragraphId":2,"currentParagraph":"Old.","previousParagraphs":["First."]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.RegenerateParagraphResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Paragraph.ID)
	assert.Equal(t, "Rewritten.", resp.Data.Paragraph.Text)
}

func TestRegenerateParagraphRequiresCurrent(t *testing.T) {
	r := newStoryRouter(t, &stubText{response: `[]`}, false)

	w := doJSON(r, "/v1/stories/regenerate-paragraph", `{"genre":"fantasy","paragraphId":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContinueStoryEndpoint(t *testing.T) {
	r := newStoryRouter(t, &stubText{response: `[
		{"text":"Third.","imagePrompt":"c"},
		{"text":"Fourth.","imagePrompt":"d"}
	]`}, false)

	w := doJSON(r, "/v1/stories/continue", `{"genre":"fantasy","existingParagraphs":["One.","Two."],"additionalParagraphs":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.ContinueStoryResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.NewParagraphs, 2)
	assert.Equal(t, 3, resp.Data.NewParagraphs[0].ID)
	assert.Equal(t, 4, resp.Data.NewParagraphs[1].ID)
}

func TestContinueStoryRequiresExisting(t *testing.T) {
	r := newStoryRouter(t, &stubText{response: `[]`}, false)

	w := doJSON(r, "/v1/stories/continue", `{"genre":"fantasy","existingParagraphs":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
