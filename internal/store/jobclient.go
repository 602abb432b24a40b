package store

import (
	"context"
	"fmt"

	"promptpilot/internal/costtracker"
	"promptpilot/internal/models"
	"promptpilot/internal/tasks"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// Ensure AsynqJobClient implements JobClient
var _ JobClient = (*AsynqJobClient)(nil)

// AsynqJobClient enqueues usage logs for the worker to persist.
type AsynqJobClient struct {
	client *asynq.Client
}

func NewAsynqJobClient(redisOpt asynq.RedisClientOpt) *AsynqJobClient {
	return &AsynqJobClient{client: asynq.NewClient(redisOpt)}
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

func (jc *AsynqJobClient) EnqueueUsageLog(ctx context.Context, usage *models.AIUsageLog) error {
	if jc.client == nil {
		return fmt.Errorf("AsynqJobClient internal client is not initialized")
	}
	task, err := tasks.NewUsageLogTask(usage)
	if err != nil {
		return err
	}
	info, err := jc.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue usage log (%s/%s): %w", usage.ServiceType, usage.ModelName, err)
	}
	log.Debugf("Enqueued task type '%s' id=%s queue=%s", task.Type(), info.ID, info.Queue)
	return nil
}

// RecordUsageEvent makes the job client a costtracker.Recorder.
func (jc *AsynqJobClient) RecordUsageEvent(ctx context.Context, event costtracker.CostEvent) error {
	return jc.EnqueueUsageLog(ctx, UsageLogFromEvent(event))
}

// UsageRecorder writes cost events straight to a UsageStore. Used when no
// Redis is configured.
type UsageRecorder struct {
	Store UsageStore
}

func (r UsageRecorder) RecordUsageEvent(ctx context.Context, event costtracker.CostEvent) error {
	return r.Store.RecordUsage(ctx, UsageLogFromEvent(event))
}

// UsageLogFromEvent converts a priced cost event into a usage row.
func UsageLogFromEvent(event costtracker.CostEvent) *models.AIUsageLog {
	usage := &models.AIUsageLog{
		Timestamp:    event.Timestamp,
		ProviderName: event.Provider,
		ServiceType:  event.Operation,
		ModelName:    event.Model,
		InputTokens:  event.InputTokens,
		OutputTokens: event.OutputTokens,
		Cost:         event.AmountUSD,
		PromptID:     event.PromptID,
	}
	if event.UserID != "" {
		userID := event.UserID
		usage.UserID = &userID
	}
	return usage
}

var (
	_ costtracker.Recorder = (*AsynqJobClient)(nil)
	_ costtracker.Recorder = UsageRecorder{}
)
