package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContextCarriesInjectedKeys(t *testing.T) {
	var buf bytes.Buffer
	old := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, nil))
	defer func() { defaultLogger = old }()

	ctx := WithContext(context.Background(), StoryIDKey, "abc-123")
	ctx = WithContext(ctx, ClientIDKey, "1.2.3.4")
	Info(ctx, "story generated")

	out := buf.String()
	assert.Contains(t, out, `"story_id":"abc-123"`)
	assert.Contains(t, out, `"client_id":"1.2.3.4"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARNING"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
