package services

import (
	"context"
	"errors"
	"fmt"

	"promptpilot/internal/costtracker"
	"promptpilot/internal/models"
	"promptpilot/internal/store"
	"promptpilot/internal/util"
	"promptpilot/pkg/categorizer"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Invoke defaults applied when the caller omits a field.
const (
	DefaultInvokeMaxTokens   = 1024
	DefaultInvokeTemperature = 0.7
	DefaultInvokeTopP        = 1.0
)

// UsageObserver receives per-call counts, typically for metrics.
type UsageObserver interface {
	ObserveCompletion(operation, provider, model string, usage Usage)
	ObserveCategory(operation string, category categorizer.Category)
}

type noopObserver struct{}

func (noopObserver) ObserveCompletion(string, string, string, Usage) {}
func (noopObserver) ObserveCategory(string, categorizer.Category) {}

// PromptSettings holds the model parameters used by generate and improve.
type PromptSettings struct {
	Model            string
	MaxTokens        int
	Temperature      float32
	GenerateTemplate string
	ImproveTemplate  string
}

// GenerateResult is returned by Generate.
type GenerateResult struct {
	ID       uuid.UUID
	Prompt   string
	Category categorizer.Category
	Tokens   int
}

// ImproveResult is returned by Improve.
type ImproveResult struct {
	ID       uuid.UUID
	Original string
	Improved string
	Category categorizer.Category
	Tokens   int
}

// InvokeParams is a fully defaulted invoke call.
type InvokeParams struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stream      bool
}

// InvokeResult is returned by Invoke.
type InvokeResult struct {
	ID           uuid.UUID
	Response     string
	Model        string
	Tokens       int
	FinishReason string
}

// PromptService runs generate, improve and invoke calls and stores each one.
type PromptService struct {
	provider   CompletionProvider
	prompts    store.PromptStore
	users      store.UserStore
	classifier *categorizer.KeywordCategorizer
	costs      costtracker.CostTracker
	observer   UsageObserver
	settings   PromptSettings
}

// NewPromptService wires the service. classifier, costs and observer may be nil.
func NewPromptService(provider CompletionProvider, prompts store.PromptStore, users store.UserStore,
	classifier *categorizer.KeywordCategorizer, costs costtracker.CostTracker, observer UsageObserver,
	settings PromptSettings) *PromptService {
	if classifier == nil {
		classifier = categorizer.NewKeywordCategorizer(nil)
	}
	if costs == nil {
		costs = costtracker.New("", nil, nil)
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &PromptService{
		provider:   provider,
		prompts:    prompts,
		users:      users,
		classifier: classifier,
		costs:      costs,
		observer:   observer,
		settings:   settings,
	}
}

// Generate writes a new prompt for goal. The category is derived from the generated text.
func (s *PromptService) Generate(ctx context.Context, userID, goal, extraContext string) (*GenerateResult, error) {
	c, err := s.complete(ctx, "generate", CompletionRequest{
		Model:       s.settings.Model,
		Messages:    BuildGenerateMessages(s.settings.GenerateTemplate, goal, extraContext),
		MaxTokens:   s.settings.MaxTokens,
		Temperature: Float32(float64(s.settings.Temperature)),
		TopP:        Float32(DefaultInvokeTopP),
	})
	if err != nil {
		return nil, err
	}

	text := util.CleanCompletionText(c.Text, s.provider.Name())
	rec, err := s.record(ctx, "generate", userID, goal, text, s.settings.Model, c)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{ID: rec.ID, Prompt: text, Category: categorizer.Category(rec.Category), Tokens: rec.Tokens}, nil
}

// Improve rewrites prompt, optionally guided by feedback.
func (s *PromptService) Improve(ctx context.Context, userID, prompt, feedback string) (*ImproveResult, error) {
	c, err := s.complete(ctx, "improve", CompletionRequest{
		Model:       s.settings.Model,
		Messages:    BuildImproveMessages(s.settings.ImproveTemplate, prompt, feedback),
		MaxTokens:   s.settings.MaxTokens,
		Temperature: Float32(float64(s.settings.Temperature)),
		TopP:        Float32(DefaultInvokeTopP),
	})
	if err != nil {
		return nil, err
	}

	text := util.CleanCompletionText(c.Text, s.provider.Name())
	rec, err := s.record(ctx, "improve", userID, prompt, text, s.settings.Model, c)
	if err != nil {
		return nil, err
	}
	return &ImproveResult{ID: rec.ID, Original: prompt, Improved: text, Category: categorizer.Category(rec.Category), Tokens: rec.Tokens}, nil
}

// Invoke forwards a prompt to the requested model. The category is derived
// from the caller's prompt.
func (s *PromptService) Invoke(ctx context.Context, userID string, p InvokeParams) (*InvokeResult, error) {
	if p.Stream {
		log.WithField("model", p.Model).Debug("stream requested; returning the full completion")
	}
	c, err := s.complete(ctx, "invoke", CompletionRequest{
		Model:       p.Model,
		Messages:    []ChatMessage{{Role: ChatMessageRoleUser, Content: p.Prompt}},
		MaxTokens:   p.MaxTokens,
		Temperature: Float32(p.Temperature),
		TopP:        Float32(p.TopP),
		Stream:      p.Stream,
	})
	if err != nil {
		return nil, err
	}

	category := s.classifier.Detect(p.Prompt)
	rec := &models.PromptRecord{
		UserID:       userID,
		OriginalText: p.Prompt,
		ImprovedText: c.Text,
		Category:     category.String(),
		ModelUsed:    p.Model,
		Tokens:       c.Usage.TotalTokens,
	}
	if err := s.persist(ctx, userID, rec); err != nil {
		return nil, err
	}
	s.observer.ObserveCategory("invoke", category)
	s.trackCost(ctx, "invoke", userID, p.Model, rec.ID, c.Usage)

	return &InvokeResult{
		ID:           rec.ID,
		Response:     c.Text,
		Model:        c.Model,
		Tokens:       c.Usage.TotalTokens,
		FinishReason: c.FinishReason,
	}, nil
}

// GetResult returns a stored interaction owned by userID. Malformed ids,
// absent records and records of other users all yield models.ErrNotFound.
func (s *PromptService) GetResult(ctx context.Context, userID, id string) (*models.PromptRecord, error) {
	promptID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("prompt %q: %w", id, models.ErrNotFound)
	}
	rec, err := s.prompts.GetPromptForUser(ctx, promptID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: fetch prompt: %w", models.ErrPersistence, err)
	}
	return rec, nil
}

// History lists the caller's interactions, newest first.
func (s *PromptService) History(ctx context.Context, userID string, limit, offset int) ([]*models.PromptRecord, error) {
	recs, err := s.prompts.ListPromptsForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list prompts: %w", models.ErrPersistence, err)
	}
	return recs, nil
}

func (s *PromptService) complete(ctx context.Context, operation string, req CompletionRequest) (*Completion, error) {
	c, err := s.provider.Complete(ctx, req)
	if err != nil {
		log.WithFields(log.Fields{"operation": operation, "provider": s.provider.Name(), "model": req.Model}).
			Errorf("Completion failed: %v", err)
		return nil, err
	}
	s.observer.ObserveCompletion(operation, s.provider.Name(), req.Model, c.Usage)
	return c, nil
}

// record categorizes produced text and stores the interaction.
func (s *PromptService) record(ctx context.Context, operation, userID, original, produced, model string, c *Completion) (*models.PromptRecord, error) {
	category := s.classifier.Detect(produced)
	rec := &models.PromptRecord{
		UserID:       userID,
		OriginalText: original,
		ImprovedText: produced,
		Category:     category.String(),
		ModelUsed:    model,
		Tokens:       c.Usage.TotalTokens,
	}
	if err := s.persist(ctx, userID, rec); err != nil {
		return nil, err
	}
	s.observer.ObserveCategory(operation, category)
	s.trackCost(ctx, operation, userID, model, rec.ID, c.Usage)
	return rec, nil
}

func (s *PromptService) persist(ctx context.Context, userID string, rec *models.PromptRecord) error {
	if err := s.prompts.SavePrompt(ctx, rec); err != nil {
		return fmt.Errorf("%w: save prompt: %w", models.ErrPersistence, err)
	}
	if err := s.users.IncrementUsage(ctx, userID); err != nil {
		return fmt.Errorf("%w: increment usage: %w", models.ErrPersistence, err)
	}
	return nil
}

func (s *PromptService) trackCost(ctx context.Context, operation, userID, model string, promptID uuid.UUID, usage Usage) {
	if usage.TotalTokens == 0 {
		return
	}
	id := promptID
	event := costtracker.CostEvent{
		Operation:    operation,
		Provider:     s.provider.Name(),
		Model:        model,
		UserID:       userID,
		PromptID:     &id,
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
	}
	if err := s.costs.RecordCost(ctx, event); err != nil {
		log.Errorf("Failed to record AI usage for %s: %v", operation, err)
	}
}
