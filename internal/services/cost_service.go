package services

import (
	"context"
	"fmt"

	"promptpilot/internal/models"
	"promptpilot/internal/store"
)

// CostService provides methods for accessing AI usage cost data.
type CostService struct {
	store store.UsageStore
}

// NewCostService creates a new CostService.
func NewCostService(store store.UsageStore) *CostService {
	return &CostService{store: store}
}

// UsageSummary totals all recorded usage.
type UsageSummary struct {
	TotalCost         float64
	TotalInputTokens  int64
	TotalOutputTokens int64
}

// ListUsage retrieves a paginated list of AI usage logs.
func (s *CostService) ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error) {
	logs, err := s.store.ListUsage(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage logs from store: %w", err)
	}
	return logs, nil
}

// GetSummary retrieves the total cost and token usage summary.
func (s *CostService) GetSummary(ctx context.Context) (UsageSummary, error) {
	cost, in, out, err := s.store.GetUsageSummary(ctx)
	if err != nil {
		return UsageSummary{}, fmt.Errorf("failed to get usage summary from store: %w", err)
	}
	return UsageSummary{TotalCost: cost, TotalInputTokens: in, TotalOutputTokens: out}, nil
}
