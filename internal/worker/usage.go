// Package worker holds the asynq task handlers run by the worker command.
package worker

import (
	"context"
	"fmt"

	"promptpilot/internal/store"
	"promptpilot/internal/tasks"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// UsageDeps are the dependencies of the usage log handler.
type UsageDeps struct {
	Store store.UsageStore
}

// HandleUsageLog persists one TypeUsageLog task.
func HandleUsageLog(deps UsageDeps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		usage, err := tasks.ParseUsageLog(t.Payload())
		if err != nil {
			// A payload we cannot decode will never succeed.
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := deps.Store.RecordUsage(ctx, usage); err != nil {
			return fmt.Errorf("record usage log: %w", err)
		}
		log.WithFields(log.Fields{
			"provider": usage.ProviderName,
			"service":  usage.ServiceType,
			"model":    usage.ModelName,
			"tokens":   usage.InputTokens + usage.OutputTokens,
		}).Debugf("Recorded AI usage, cost=%.8f", usage.Cost)
		return nil
	}
}

// RegisterHandlers wires every task type onto mux.
func RegisterHandlers(mux *asynq.ServeMux, usage UsageDeps) {
	log.Infof("Registering handler for %s", tasks.TypeUsageLog)
	mux.HandleFunc(tasks.TypeUsageLog, HandleUsageLog(usage))
}
