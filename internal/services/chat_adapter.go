package services

import (
	"context"

	"promptpilot/pkg/categorizer"

	"github.com/sashabaranov/go-openai"
)

// ChatCompletionAdapter exposes a CompletionProvider through the go-openai
// call shape used by categorizer.LLMCategorizer, so the classifier runs on
// whichever provider is configured.
type ChatCompletionAdapter struct {
	Provider CompletionProvider
}

func (a ChatCompletionAdapter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	messages := make([]ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = ChatMessage{Role: ChatMessageRole(m.Role), Content: m.Content}
	}

	// go-openai treats a zero sampling parameter as unset.
	creq := CompletionRequest{Model: req.Model, Messages: messages, MaxTokens: req.MaxTokens}
	if req.Temperature != 0 {
		creq.Temperature = Float32(float64(req.Temperature))
	}
	if req.TopP != 0 {
		creq.TopP = Float32(float64(req.TopP))
	}
	c, err := a.Provider.Complete(ctx, creq)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	return openai.ChatCompletionResponse{
		ID:    c.ID,
		Model: c.Model,
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: c.Text},
			FinishReason: openai.FinishReason(c.FinishReason),
		}},
		Usage: openai.Usage{
			PromptTokens:     c.Usage.PromptTokens,
			CompletionTokens: c.Usage.CompletionTokens,
			TotalTokens:      c.Usage.TotalTokens,
		},
	}, nil
}

var _ categorizer.ChatCompletionCreator = ChatCompletionAdapter{}
