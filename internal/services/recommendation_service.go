package services

import (
	"context"
	"fmt"

	"promptpilot/internal/costtracker"
	"promptpilot/internal/models"
	"promptpilot/internal/store"
	"promptpilot/pkg/categorizer"

	log "github.com/sirupsen/logrus"
)

// RecommendResult is a model recommendation plus the classifier token count
// when an LLM classification was needed.
type RecommendResult struct {
	categorizer.Recommendation
	Tokens *int `json:"tokens,omitempty"`
}

// RecommendationService picks models for a prompt.
type RecommendationService struct {
	classifier categorizer.ContentCategorizer
	users      store.UserStore
	observer   UsageObserver
}

// NewRecommendationService wires the service. classifier is consulted only
// when the caller does not name a category.
func NewRecommendationService(classifier categorizer.ContentCategorizer, users store.UserStore, observer UsageObserver) *RecommendationService {
	if observer == nil {
		observer = noopObserver{}
	}
	return &RecommendationService{classifier: classifier, users: users, observer: observer}
}

// Recommend returns the preferred models for prompt. A non-empty category
// skips classification and is reported with full confidence.
func (s *RecommendationService) Recommend(ctx context.Context, userID, prompt, category string) (*RecommendResult, error) {
	if category != "" {
		c, ok := categorizer.ParseCategory(category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", models.ErrValidation, category)
		}
		if err := s.incrementUsage(ctx, userID); err != nil {
			return nil, err
		}
		s.observer.ObserveCategory("recommend", c)
		return &RecommendResult{Recommendation: categorizer.Recommend(c, categorizer.UserSpecifiedConfidence)}, nil
	}

	if s.classifier == nil {
		return nil, models.NewConfigurationError("no classifier configured for model recommendation")
	}
	res, err := s.classifier.Categorize(costtracker.WithUserID(ctx, userID), prompt)
	if err != nil {
		log.WithField("user", userID).Errorf("Classification failed: %v", err)
		return nil, err
	}
	if err := s.incrementUsage(ctx, userID); err != nil {
		return nil, err
	}
	s.observer.ObserveCategory("recommend", res.Category)

	tokens := res.Tokens
	return &RecommendResult{
		Recommendation: categorizer.Recommend(res.Category, res.Confidence),
		Tokens:         &tokens,
	}, nil
}

func (s *RecommendationService) incrementUsage(ctx context.Context, userID string) error {
	if err := s.users.IncrementUsage(ctx, userID); err != nil {
		return fmt.Errorf("%w: increment usage: %w", models.ErrPersistence, err)
	}
	return nil
}
