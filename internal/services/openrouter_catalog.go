package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"promptpilot/internal/models"
)

// OpenRouterCatalog lists models from the OpenRouter /models endpoint.
type OpenRouterCatalog struct {
	baseURL    string
	apiKey     string
	siteURL    string
	siteName   string
	httpClient *http.Client
}

func NewOpenRouterCatalog(apiKey, baseURL, siteURL, siteName string) *OpenRouterCatalog {
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}
	return &OpenRouterCatalog{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		siteURL:    siteURL,
		siteName:   siteName,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type openRouterModel struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ContextLength int    `json:"context_length"`
	Pricing       struct {
		Prompt     string `json:"prompt"`
		Completion string `json:"completion"`
	} `json:"pricing"`
}

// ListModels fetches the catalog. OpenRouter prices per token; the result is
// converted to per 1K tokens.
func (c *OpenRouterCatalog) ListModels(ctx context.Context) ([]models.ModelDescriptor, error) {
	if c.apiKey == "" {
		return nil, models.NewConfigurationError("OpenRouter API key is required but not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.siteURL != "" {
		req.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.siteName != "" {
		req.Header.Set("X-Title", c.siteName)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Provider: "openrouter", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &models.ProviderError{
			Provider:   "openrouter",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("list models: %s", strings.TrimSpace(string(body))),
		}
	}

	var result struct {
		Data []openRouterModel `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &models.ProviderError{Provider: "openrouter", Err: fmt.Errorf("decode models: %w", err)}
	}

	out := make([]models.ModelDescriptor, 0, len(result.Data))
	for _, m := range result.Data {
		out = append(out, models.ModelDescriptor{
			ID:            m.ID,
			Name:          m.Name,
			Description:   m.Description,
			ContextLength: m.ContextLength,
			Pricing: models.ModelPricing{
				Prompt:     perThousand(m.Pricing.Prompt),
				Completion: perThousand(m.Pricing.Completion),
			},
		})
	}
	return out, nil
}

func perThousand(perToken string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(perToken), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v * 1000
}

var _ ModelLister = (*OpenRouterCatalog)(nil)
