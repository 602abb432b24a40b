package store

import (
	"context"

	"promptpilot/internal/models"

	"github.com/google/uuid"
)

// --- Prompt Store ---

type PromptStore interface {
	// SavePrompt assigns ID and timestamps when they are unset.
	SavePrompt(ctx context.Context, record *models.PromptRecord) error
	// GetPromptForUser returns ErrNotFound for absent ids and for records owned by someone else.
	GetPromptForUser(ctx context.Context, id uuid.UUID, userID string) (*models.PromptRecord, error)
	ListPromptsForUser(ctx context.Context, userID string, limit, offset int) ([]*models.PromptRecord, error)
}

// --- User Store ---

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUserByClerkID(ctx context.Context, clerkID string) error
	// IncrementUsage bumps usage_count, creating a stub row for unknown users.
	IncrementUsage(ctx context.Context, clerkID string) error
}

// --- Usage Store ---

type UsageStore interface {
	RecordUsage(ctx context.Context, log *models.AIUsageLog) error
	ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error)
	GetUsageSummary(ctx context.Context) (totalCost float64, totalInputTokens, totalOutputTokens int64, err error)
}

// Store is everything the API persists.
type Store interface {
	PromptStore
	UserStore
	UsageStore
	Ping(ctx context.Context) error
	Close()
}

// --- Job Client ---

type JobClient interface {
	EnqueueUsageLog(ctx context.Context, log *models.AIUsageLog) error
	Close() error
}
