package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"promptpilot/internal/models"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-or-test", r.Header.Get("Authorization"))
		assert.Equal(t, "https://promptpilot.dev", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "PromptPilot", r.Header.Get("X-Title"))

		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "openai/gpt-4o", body.Model)
		assert.Equal(t, 64, body.MaxTokens)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "gen-123",
			"model": "openai/gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello!"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 2, "total_tokens": 7}
		}`))
	}))
	defer srv.Close()

	p := NewOpenRouterProvider("sk-or-test", srv.URL, "https://promptpilot.dev", "PromptPilot")
	assert.Equal(t, ProviderStatusActive, p.Status())

	c, err := p.Complete(context.Background(), CompletionRequest{
		Model:     "openai/gpt-4o",
		Messages:  []ChatMessage{{Role: ChatMessageRoleUser, Content: "Say hello"}},
		MaxTokens: 64,
	})
	require.NoError(t, err)
	assert.Equal(t, "gen-123", c.ID)
	assert.Equal(t, "Hello!", c.Text)
	assert.Equal(t, "stop", c.FinishReason)
	assert.Equal(t, 7, c.Usage.TotalTokens)
}

func TestOpenAIProvider_ErrorStatus(t *testing.T) {
	tests := []struct {
		vendorStatus int
		wantStatus   int
	}{
		{http.StatusUnauthorized, http.StatusUnauthorized},
		{http.StatusForbidden, http.StatusUnauthorized},
		{http.StatusTooManyRequests, http.StatusTooManyRequests},
		{http.StatusBadGateway, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.vendorStatus), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.vendorStatus)
				w.Write([]byte(`{"error":{"message":"nope","type":"invalid_request_error"}}`))
			}))
			defer srv.Close()

			p := NewOpenAIProvider("sk-test", srv.URL)
			_, err := p.Complete(context.Background(), CompletionRequest{
				Model:    "gpt-4o",
				Messages: []ChatMessage{{Role: ChatMessageRoleUser, Content: "hi"}},
			})

			var perr *models.ProviderError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.vendorStatus, perr.StatusCode)
			assert.Equal(t, tt.wantStatus, perr.HTTPStatus())
		})
	}
}

func TestOpenAIProvider_MissingKey(t *testing.T) {
	p := NewOpenRouterProvider("", "", "", "")
	assert.Equal(t, ProviderStatusDisabled, p.Status())

	_, err := p.Complete(context.Background(), CompletionRequest{Model: "openai/gpt-4o"})
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestOpenAIProvider_SamplingParams(t *testing.T) {
	tests := []struct {
		name            string
		temperature     *float32
		topP            *float32
		wantTemperature bool
		wantTopP        bool
	}{
		{name: "explicit zero is sent", temperature: Float32(0), topP: Float32(0), wantTemperature: true, wantTopP: true},
		{name: "non-zero is sent", temperature: Float32(0.7), topP: Float32(1), wantTemperature: true, wantTopP: true},
		{name: "unset is omitted", temperature: nil, topP: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id":"x","choices":[{"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`))
			}))
			defer srv.Close()

			_, err := NewOpenAIProvider("sk-test", srv.URL).Complete(context.Background(), CompletionRequest{
				Model:       "gpt-4o",
				Messages:    []ChatMessage{{Role: ChatMessageRoleUser, Content: "hi"}},
				MaxTokens:   10,
				Temperature: tt.temperature,
				TopP:        tt.topP,
			})
			require.NoError(t, err)

			temp, hasTemp := body["temperature"]
			topP, hasTopP := body["top_p"]
			assert.Equal(t, tt.wantTemperature, hasTemp)
			assert.Equal(t, tt.wantTopP, hasTopP)
			if hasTemp {
				assert.InDelta(t, float64(*tt.temperature), temp, 1e-6)
			}
			if hasTopP {
				assert.InDelta(t, float64(*tt.topP), topP, 1e-6)
			}
		})
	}
}

func TestChatCompletionAdapter_ZeroMeansUnset(t *testing.T) {
	var got CompletionRequest
	p := new(mockProvider)
	p.On("Complete", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(CompletionRequest)
	}).Return(&Completion{Text: "code,0.9"}, nil)

	_, err := ChatCompletionAdapter{Provider: p}.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model:       "openai/gpt-3.5-turbo",
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
		Temperature: 0.3,
	})
	require.NoError(t, err)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.3, *got.Temperature, 1e-6)
	assert.Nil(t, got.TopP)
}
