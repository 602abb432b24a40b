package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"promptpilot/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestGeminiProvider_ResolveModel(t *testing.T) {
	p, err := NewGeminiProvider(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-pro", p.ResolveModel("google/gemini-1.5-pro"))
	assert.Equal(t, "gemini-1.5-flash", p.ResolveModel("models/gemini-1.5-flash"))
	assert.Equal(t, DefaultGeminiModel, p.ResolveModel("openai/gpt-4o"))
	assert.Equal(t, DefaultGeminiModel, p.ResolveModel(""))
}

func TestGeminiProvider_Disabled(t *testing.T) {
	p, err := NewGeminiProvider(context.Background(), "", "gemini-1.5-pro")
	require.NoError(t, err)
	assert.Equal(t, ProviderStatusDisabled, p.Status())
	assert.NoError(t, p.Close())

	_, err = p.Complete(context.Background(), CompletionRequest{Model: "gemini-1.5-pro"})
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestWrapGeminiError(t *testing.T) {
	err := wrapGeminiError(fmt.Errorf("send: %w", &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota"}))
	var perr *models.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "gemini", perr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, perr.HTTPStatus())

	err = wrapGeminiError(errors.New("dial tcp: timeout"))
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusInternalServerError, perr.HTTPStatus())
}

func TestGeminiFinishReason(t *testing.T) {
	tests := map[genai.FinishReason]string{
		genai.FinishReasonStop:        "stop",
		genai.FinishReasonMaxTokens:   "length",
		genai.FinishReasonSafety:      "content_filter",
		genai.FinishReasonRecitation:  "content_filter",
		genai.FinishReasonOther:       "other",
		genai.FinishReasonUnspecified: "",
	}
	for in, want := range tests {
		assert.Equal(t, want, geminiFinishReason(in), in.String())
	}
}
