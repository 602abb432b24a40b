package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"promptpilot/internal/models"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when a request names a model Gemini does not serve.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiProvider implements CompletionProvider using the Google Gemini API.
type GeminiProvider struct {
	client       *genai.Client
	defaultModel string
}

// NewGeminiProvider creates a new Gemini completion provider.
func NewGeminiProvider(ctx context.Context, apiKey, defaultModel string) (*GeminiProvider, error) {
	if defaultModel == "" {
		defaultModel = DefaultGeminiModel
	}
	if apiKey == "" {
		log.Warn("Gemini API key not provided. Gemini provider will be disabled.")
		return &GeminiProvider{defaultModel: defaultModel}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Infof("Gemini provider initialized with default model %s", defaultModel)
	return &GeminiProvider{client: client, defaultModel: defaultModel}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string { return "gemini" }

// Status returns the operational status of the provider.
func (p *GeminiProvider) Status() ProviderStatus {
	if p.client == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

// ResolveModel maps a requested model id onto a Gemini model name. Vendor
// prefixed ids ("openai/gpt-4o") fall back to the default model.
func (p *GeminiProvider) ResolveModel(requested string) string {
	name := strings.TrimPrefix(requested, "google/")
	name = strings.TrimPrefix(name, "models/")
	if strings.HasPrefix(name, "gemini") && !strings.Contains(name, "/") {
		return name
	}
	return p.defaultModel
}

func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if p.client == nil {
		return nil, models.NewConfigurationError("Gemini API key is required but not configured")
	}

	modelName := p.ResolveModel(req.Model)
	model := p.client.GenerativeModel(modelName)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.TopP != nil {
		model.SetTopP(*req.TopP)
	}

	// System messages become the system instruction; the last user turn is
	// sent and everything before it is history.
	var system []genai.Part
	var turns []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case ChatMessageRoleSystem:
			system = append(system, genai.Text(m.Content))
		case ChatMessageRoleAssistant:
			turns = append(turns, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			turns = append(turns, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}})
		}
	}
	if len(turns) == 0 {
		return nil, errors.New("gemini completion requires at least one user message")
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}

	cs := model.StartChat()
	cs.History = turns[:len(turns)-1]
	resp, err := cs.SendMessage(ctx, turns[len(turns)-1].Parts...)
	if err != nil {
		return nil, wrapGeminiError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &models.ProviderError{Provider: p.Name(), Err: fmt.Errorf("no candidates returned for model %s", modelName)}
	}

	cand := resp.Candidates[0]
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	out := &Completion{
		Text:         text.String(),
		Model:        modelName,
		FinishReason: geminiFinishReason(cand.FinishReason),
	}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

// geminiFinishReason maps genai finish reasons onto the OpenAI names.
func geminiFinishReason(r genai.FinishReason) string {
	switch r {
	case genai.FinishReasonStop:
		return "stop"
	case genai.FinishReasonMaxTokens:
		return "length"
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return "content_filter"
	case genai.FinishReasonUnspecified:
		return ""
	default:
		return "other"
	}
}

func wrapGeminiError(err error) error {
	status := 0
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		status = gErr.Code
	}
	return &models.ProviderError{Provider: "gemini", StatusCode: status, Err: err}
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

var _ CompletionProvider = (*GeminiProvider)(nil)
