package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"promptpilot/internal/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Defines constants for task types used in Asynq.

const (
	// TypeUsageLog persists one AI usage record.
	TypeUsageLog = "usage:log"

	// QueueUsage is the queue usage tasks are enqueued on.
	QueueUsage = "usage"
)

// UsageLogPayload is the JSON body of a TypeUsageLog task.
type UsageLogPayload struct {
	Timestamp    time.Time  `json:"timestamp"`
	ProviderName string     `json:"provider_name"`
	ServiceType  string     `json:"service_type"`
	ModelName    string     `json:"model_name"`
	InputTokens  int        `json:"input_tokens"`
	OutputTokens int        `json:"output_tokens"`
	Cost         float64    `json:"cost"`
	UserID       *string    `json:"user_id,omitempty"`
	PromptID     *uuid.UUID `json:"prompt_id,omitempty"`
}

// NewUsageLogTask wraps a usage log in an asynq task.
func NewUsageLogTask(log *models.AIUsageLog) (*asynq.Task, error) {
	payload, err := json.Marshal(UsageLogPayload{
		Timestamp:    log.Timestamp,
		ProviderName: log.ProviderName,
		ServiceType:  log.ServiceType,
		ModelName:    log.ModelName,
		InputTokens:  log.InputTokens,
		OutputTokens: log.OutputTokens,
		Cost:         log.Cost,
		UserID:       log.UserID,
		PromptID:     log.PromptID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal usage log payload: %w", err)
	}
	return asynq.NewTask(TypeUsageLog, payload, asynq.Queue(QueueUsage), asynq.MaxRetry(5)), nil
}

// ParseUsageLog decodes a TypeUsageLog task payload.
func ParseUsageLog(payload []byte) (*models.AIUsageLog, error) {
	var p UsageLogPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("unmarshal usage log payload: %w", err)
	}
	return &models.AIUsageLog{
		Timestamp:    p.Timestamp,
		ProviderName: p.ProviderName,
		ServiceType:  p.ServiceType,
		ModelName:    p.ModelName,
		InputTokens:  p.InputTokens,
		OutputTokens: p.OutputTokens,
		Cost:         p.Cost,
		UserID:       p.UserID,
		PromptID:     p.PromptID,
	}, nil
}
