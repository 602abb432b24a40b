package services

import (
	"context"
)

// ChatMessageRole defines the role of the message sender (system, user, assistant).
type ChatMessageRole string

const (
	ChatMessageRoleSystem    ChatMessageRole = "system"
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant" // "model" for Gemini
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    ChatMessageRole
	Content string
}

// ProviderStatus reports whether a provider can serve calls.
type ProviderStatus int

const (
	ProviderStatusUnknown  ProviderStatus = iota
	ProviderStatusActive                  // configured with credentials
	ProviderStatusDisabled                // missing credentials
)

func (s ProviderStatus) String() string {
	switch s {
	case ProviderStatusActive:
		return "active"
	case ProviderStatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// CompletionRequest is a provider-neutral chat completion call.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	// Temperature and TopP are sent whenever non-nil, including zero. Nil
	// leaves the vendor default.
	Temperature *float32
	TopP        *float32
	// Stream is accepted for API compatibility; responses are always returned whole.
	Stream bool
}

// Usage is the provider-reported token accounting.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the first choice of a provider response.
type Completion struct {
	ID           string
	Text         string
	Model        string
	FinishReason string
	Usage        Usage
}

// CompletionProvider generates chat completions.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	Status() ProviderStatus
	Name() string // Provider name (e.g., "openrouter", "gemini")
}

// Float32 returns a pointer to v as a float32 sampling parameter.
func Float32(v float64) *float32 {
	f := float32(v)
	return &f
}
