package categorizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"promptpilot/internal/costtracker"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock OpenAI Client ---
type mockOpenAIClient struct {
	mockResponse openai.ChatCompletionResponse
	mockError    error
	lastRequest  openai.ChatCompletionRequest
}

func (m *mockOpenAIClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastRequest = req
	if m.mockError != nil {
		return openai.ChatCompletionResponse{}, m.mockError
	}
	return m.mockResponse, nil
}

func replyWith(content string, total int) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
		Usage:   openai.Usage{PromptTokens: total - 3, CompletionTokens: 3, TotalTokens: total},
	}
}

// --- End Mock OpenAI Client ---

type recordingTracker struct {
	events []costtracker.CostEvent
}

func (r *recordingTracker) RecordCost(ctx context.Context, event costtracker.CostEvent) error {
	r.events = append(r.events, event)
	return nil
}

func TestLLMCategorizer_Categorize_Parsing(t *testing.T) {
	mockClient := &mockOpenAIClient{mockResponse: replyWith("code,0.85", 42)}
	tracker := &recordingTracker{}
	categorizer := NewLLMCategorizer(mockClient, "openai/gpt-3.5-turbo", "", tracker)

	result, err := categorizer.Categorize(context.Background(), "Fix my Go function please")
	require.NoError(t, err)

	assert.Equal(t, CategoryCode, result.Category)
	assert.Equal(t, 0.85, result.Confidence)
	assert.Equal(t, 42, result.Tokens)

	req := mockClient.lastRequest
	assert.Equal(t, "openai/gpt-3.5-turbo", req.Model)
	assert.Equal(t, 20, req.MaxTokens)
	assert.InDelta(t, 0.3, req.Temperature, 1e-6)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[1].Content, `"Fix my Go function please"`)
	assert.False(t, strings.Contains(req.Messages[1].Content, "{{PROMPT}}"))

	require.Len(t, tracker.events, 1)
	assert.Equal(t, "classification", tracker.events[0].Operation)
	assert.Equal(t, 39, tracker.events[0].InputTokens)
	assert.Equal(t, 3, tracker.events[0].OutputTokens)
}

func TestLLMCategorizer_Categorize_MalformedReply(t *testing.T) {
	mockClient := &mockOpenAIClient{mockResponse: replyWith("bogus,xyz", 10)}
	categorizer := NewLLMCategorizer(mockClient, "m", "", nil)

	result, err := categorizer.Categorize(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Equal(t, CategoryChat, result.Category)
	assert.Equal(t, FallbackConfidence, result.Confidence)
}

func TestLLMCategorizer_Categorize_CustomTemplate(t *testing.T) {
	mockClient := &mockOpenAIClient{mockResponse: replyWith("writing,0.6", 5)}
	categorizer := NewLLMCategorizer(mockClient, "m", "Classify: {{PROMPT}}", nil)

	_, err := categorizer.Categorize(context.Background(), "a poem")
	require.NoError(t, err)
	assert.Equal(t, "Classify: a poem", mockClient.lastRequest.Messages[1].Content)
}

func TestLLMCategorizer_Categorize_APIError(t *testing.T) {
	apiErr := errors.New("simulated API error")
	categorizer := NewLLMCategorizer(&mockOpenAIClient{mockError: apiErr}, "m", "", nil)

	_, err := categorizer.Categorize(context.Background(), "anything at all")
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
}

func TestLLMCategorizer_Categorize_NoChoices(t *testing.T) {
	categorizer := NewLLMCategorizer(&mockOpenAIClient{}, "m", "", nil)

	_, err := categorizer.Categorize(context.Background(), "anything at all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		reply      string
		category   Category
		confidence float64
	}{
		{"code,0.85", CategoryCode, 0.85},
		{"bogus,xyz", CategoryChat, FallbackConfidence},
		{"  Reasoning , 0.9 ", CategoryReasoning, 0.9},
		{`"writing,0.4"`, CategoryWriting, 0.4},
		{"multimodal", CategoryMultimodal, FallbackConfidence},
		{"code,0.75 (fairly sure)", CategoryCode, 0.75},
		{"code,NaN", CategoryCode, FallbackConfidence},
		{"", CategoryChat, FallbackConfidence},
	}
	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			category, confidence := ParseClassification(tt.reply)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.confidence, confidence)
		})
	}
}
