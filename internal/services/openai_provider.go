package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"promptpilot/internal/models"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// OpenRouterBaseURL is the OpenAI-compatible endpoint of OpenRouter.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenAIProvider implements CompletionProvider over any OpenAI-compatible
// chat completions API (OpenAI itself or OpenRouter).
type OpenAIProvider struct {
	client *openai.Client
	name   string
}

// NewOpenRouterProvider creates a provider that talks to OpenRouter. siteURL and
// siteName are sent as the HTTP-Referer and X-Title attribution headers.
func NewOpenRouterProvider(apiKey, baseURL, siteURL, siteName string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}
	headers := map[string]string{}
	if siteURL != "" {
		headers["HTTP-Referer"] = siteURL
	}
	if siteName != "" {
		headers["X-Title"] = siteName
	}
	return newOpenAICompatible("openrouter", apiKey, baseURL, headers)
}

// NewOpenAIProvider creates a provider for the OpenAI API. An empty baseURL
// keeps the client default.
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	return newOpenAICompatible("openai", apiKey, baseURL, nil)
}

func newOpenAICompatible(name, apiKey, baseURL string, headers map[string]string) *OpenAIProvider {
	if apiKey == "" {
		log.Warnf("%s API key not provided. %s provider will be disabled.", name, name)
		return &OpenAIProvider{name: name}
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if len(headers) > 0 {
		cfg.HTTPClient = &http.Client{Transport: &headerTransport{headers: headers, base: http.DefaultTransport}}
	}

	log.Infof("%s provider initialized (base URL %s)", name, cfg.BaseURL)
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), name: name}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return p.name }

// Status returns the operational status of the provider.
func (p *OpenAIProvider) Status() ProviderStatus {
	if p.client == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if p.client == nil {
		return nil, models.NewConfigurationError("%s API key is required but not configured", p.name)
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: samplingParam(req.Temperature),
		TopP:        samplingParam(req.TopP),
	})
	if err != nil {
		return nil, p.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &models.ProviderError{Provider: p.name, Err: fmt.Errorf("no choices returned for model %s", req.Model)}
	}

	model := resp.Model
	if model == "" {
		model = req.Model
	}
	return &Completion{
		ID:           resp.ID,
		Text:         resp.Choices[0].Message.Content,
		Model:        model,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// samplingParam converts an optional parameter to go-openai's omitempty
// float32. An explicit zero becomes math.SmallestNonzeroFloat32 so it is
// still encoded.
func samplingParam(v *float32) float32 {
	if v == nil {
		return 0
	}
	if *v == 0 {
		return math.SmallestNonzeroFloat32
	}
	return *v
}

// wrapError keeps the vendor HTTP status so handlers can map it.
func (p *OpenAIProvider) wrapError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	return &models.ProviderError{Provider: p.name, StatusCode: status, Err: err}
}

// headerTransport adds fixed headers to every outgoing request.
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

var _ CompletionProvider = (*OpenAIProvider)(nil)
