package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a user's subscription tier.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// User mirrors an identity-provider account in the local database.
type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ClerkID    string    `db:"clerk_id" json:"clerk_id"`
	Email      string    `db:"email" json:"email"`
	Name       *string   `db:"name" json:"name,omitempty"`
	UsageCount int64     `db:"usage_count" json:"usage_count"`
	Plan       Plan      `db:"plan" json:"plan"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// PromptRecord is one stored generate/improve/invoke interaction.
// UserID holds the identity-provider user id.
type PromptRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	OriginalText string    `db:"original_text" json:"original_text"`
	ImprovedText string    `db:"improved_text" json:"improved_text"`
	Category     string    `db:"category" json:"category"`
	ModelUsed    string    `db:"model_used" json:"model_used"`
	Tokens       int       `db:"tokens" json:"tokens"`
	QualityScore int       `db:"quality_score" json:"quality_score"` // 0-10, set by a future rating feature
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ModelPricing is the cost per 1K tokens.
type ModelPricing struct {
	Prompt     float64 `json:"prompt" mapstructure:"prompt"`
	Completion float64 `json:"completion" mapstructure:"completion"`
}

// ModelDescriptor describes a hosted model from the vendor catalog.
type ModelDescriptor struct {
	ID            string       `json:"id" mapstructure:"id"`
	Name          string       `json:"name" mapstructure:"name"`
	Description   string       `json:"description,omitempty" mapstructure:"description"`
	ContextLength int          `json:"context_length" mapstructure:"context_length"`
	Pricing       ModelPricing `json:"pricing" mapstructure:"pricing"`
	Category      string       `json:"category,omitempty" mapstructure:"category"`
}

// AIUsageLog represents a record of AI API usage for cost tracking.
type AIUsageLog struct {
	ID           int64      `db:"id"`
	Timestamp    time.Time  `db:"timestamp"`
	ProviderName string     `db:"provider_name"`
	ServiceType  string     `db:"service_type"` // e.g., "generate", "classification"
	ModelName    string     `db:"model_name"`
	InputTokens  int        `db:"input_tokens"`
	OutputTokens int        `db:"output_tokens"`
	Cost         float64    `db:"cost"`
	UserID       *string    `db:"user_id"`   // nullable
	PromptID     *uuid.UUID `db:"prompt_id"` // nullable
}
