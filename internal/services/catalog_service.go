package services

import (
	"context"
	"strings"

	"promptpilot/internal/costtracker"
	"promptpilot/internal/models"
)

// DefaultModels is the static catalog served when no live source is configured.
// Pricing is per 1K tokens.
var DefaultModels = []models.ModelDescriptor{
	{
		ID:            "openai/gpt-4o",
		Name:          "GPT-4o",
		Description:   "OpenAI's most advanced model, optimized for chat and multimodal tasks",
		ContextLength: 128000,
		Pricing:       models.ModelPricing{Prompt: 0.01, Completion: 0.03},
		Category:      "chat",
	},
	{
		ID:            "anthropic/claude-3-opus",
		Name:          "Claude 3 Opus",
		Description:   "Anthropic's most capable model for complex reasoning tasks",
		ContextLength: 200000,
		Pricing:       models.ModelPricing{Prompt: 0.015, Completion: 0.075},
		Category:      "reasoning",
	},
	{
		ID:            "anthropic/claude-3-sonnet",
		Name:          "Claude 3 Sonnet",
		Description:   "Balanced performance and cost for most tasks",
		ContextLength: 180000,
		Pricing:       models.ModelPricing{Prompt: 0.003, Completion: 0.015},
		Category:      "writing",
	},
	{
		ID:            "anthropic/claude-3-haiku",
		Name:          "Claude 3 Haiku",
		Description:   "Fast and cost-effective for simpler tasks",
		ContextLength: 150000,
		Pricing:       models.ModelPricing{Prompt: 0.00025, Completion: 0.00125},
		Category:      "chat",
	},
	{
		ID:            "openai/gpt-3.5-turbo",
		Name:          "GPT-3.5 Turbo",
		Description:   "Fast and cost-effective for coding and simpler tasks",
		ContextLength: 16000,
		Pricing:       models.ModelPricing{Prompt: 0.0005, Completion: 0.0015},
		Category:      "code",
	},
	{
		ID:            "mistralai/mistral-7b-instruct",
		Name:          "Mistral 7B Instruct",
		Description:   "Efficient open-source model for various tasks",
		ContextLength: 32000,
		Pricing:       models.ModelPricing{Prompt: 0.0002, Completion: 0.0002},
		Category:      "code",
	},
	{
		ID:            "meta-llama/llama-3-70b-instruct",
		Name:          "Llama 3 70B Instruct",
		Description:   "Meta's powerful open-source model for complex tasks",
		ContextLength: 8000,
		Pricing:       models.ModelPricing{Prompt: 0.0009, Completion: 0.0009},
		Category:      "reasoning",
	},
}

// ModelLister fetches a live model catalog.
type ModelLister interface {
	ListModels(ctx context.Context) ([]models.ModelDescriptor, error)
}

// CatalogService lists models and prices usage.
type CatalogService struct {
	static []models.ModelDescriptor
	byID   map[string]models.ModelDescriptor
	remote ModelLister
}

// NewCatalogService builds a catalog over static (DefaultModels when empty).
// A non-nil remote is used for listing; static entries still price usage and
// supply categories the remote does not carry.
func NewCatalogService(static []models.ModelDescriptor, remote ModelLister) *CatalogService {
	if len(static) == 0 {
		static = DefaultModels
	}
	byID := make(map[string]models.ModelDescriptor, len(static))
	for _, m := range static {
		byID[m.ID] = m
	}
	return &CatalogService{static: static, byID: byID, remote: remote}
}

// List returns the catalog, filtered by category when one is given.
func (s *CatalogService) List(ctx context.Context, category string) ([]models.ModelDescriptor, error) {
	all := s.static
	if s.remote != nil {
		fetched, err := s.remote.ListModels(ctx)
		if err != nil {
			return nil, err
		}
		all = make([]models.ModelDescriptor, len(fetched))
		for i, m := range fetched {
			if m.Category == "" {
				m.Category = s.byID[m.ID].Category
			}
			all[i] = m
		}
	}

	category = strings.ToLower(strings.TrimSpace(category))
	out := make([]models.ModelDescriptor, 0, len(all))
	for _, m := range all {
		if category == "" || strings.EqualFold(m.Category, category) {
			out = append(out, m)
		}
	}
	return out, nil
}

// PriceFor implements costtracker.Pricer from the static catalog.
func (s *CatalogService) PriceFor(model string) (float64, float64, bool) {
	m, ok := s.byID[model]
	if !ok {
		return 0, 0, false
	}
	return m.Pricing.Prompt, m.Pricing.Completion, true
}

var _ costtracker.Pricer = (*CatalogService)(nil)
