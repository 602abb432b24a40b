package costtracker

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CostEvent represents a single AI usage event.
type CostEvent struct {
	Operation    string // e.g., "generate", "improve", "invoke", "classification"
	Provider     string
	Model        string
	UserID       string
	PromptID     *uuid.UUID
	InputTokens  int
	OutputTokens int
	AmountUSD    float64 // filled by the tracker when left zero
	Timestamp    time.Time
}

// Pricer resolves per-1K-token pricing for a model id.
type Pricer interface {
	PriceFor(model string) (promptPer1K, completionPer1K float64, ok bool)
}

// Recorder persists or forwards a priced event.
type Recorder interface {
	RecordUsageEvent(ctx context.Context, event CostEvent) error
}

// CostTracker records AI usage.
type CostTracker interface {
	RecordCost(ctx context.Context, event CostEvent) error
}

type userIDKey struct{}

// WithUserID attaches the acting user to ctx; events recorded under ctx
// without a UserID inherit it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFrom returns the user attached by WithUserID.
func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// New returns a tracker that prices events with pricer and hands them to
// recorder. provider fills events that do not name one. A nil recorder yields
// a no-op tracker.
func New(provider string, pricer Pricer, recorder Recorder) CostTracker {
	if recorder == nil {
		return &noopCostTracker{}
	}
	return &tracker{provider: provider, pricer: pricer, recorder: recorder}
}

type tracker struct {
	provider string
	pricer   Pricer
	recorder Recorder
}

func (t *tracker) RecordCost(ctx context.Context, event CostEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Provider == "" {
		event.Provider = t.provider
	}
	if event.UserID == "" {
		event.UserID = UserIDFrom(ctx)
	}
	if event.AmountUSD == 0 && t.pricer != nil {
		if in, out, ok := t.pricer.PriceFor(event.Model); ok {
			event.AmountUSD = Cost(event.InputTokens, event.OutputTokens, in, out)
		} else {
			log.Debugf("Pricing info not found for model '%s'; recording usage with zero cost.", event.Model)
		}
	}
	return t.recorder.RecordUsageEvent(ctx, event)
}

// Cost prices token counts against per-1K-token rates.
func Cost(inputTokens, outputTokens int, promptPer1K, completionPer1K float64) float64 {
	return float64(inputTokens)/1000*promptPer1K + float64(outputTokens)/1000*completionPer1K
}

type noopCostTracker struct{}

func (n *noopCostTracker) RecordCost(ctx context.Context, event CostEvent) error { return nil }
