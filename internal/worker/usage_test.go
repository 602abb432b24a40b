package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"promptpilot/internal/models"
	"promptpilot/internal/store/memory"
	"promptpilot/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleUsageLog(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	user := "user_1"
	promptID := uuid.New()

	task, err := tasks.NewUsageLogTask(&models.AIUsageLog{
		Timestamp:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		ProviderName: "openrouter",
		ServiceType:  "generate",
		ModelName:    "openai/gpt-4o",
		InputTokens:  100,
		OutputTokens: 50,
		Cost:         0.0025,
		UserID:       &user,
		PromptID:     &promptID,
	})
	require.NoError(t, err)
	assert.Equal(t, tasks.TypeUsageLog, task.Type())

	require.NoError(t, HandleUsageLog(UsageDeps{Store: st})(ctx, task))

	logs, err := st.ListUsage(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "generate", logs[0].ServiceType)
	assert.Equal(t, 150, logs[0].InputTokens+logs[0].OutputTokens)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, "user_1", *logs[0].UserID)
	require.NotNil(t, logs[0].PromptID)
	assert.Equal(t, promptID, *logs[0].PromptID)

	cost, in, out, err := st.GetUsageSummary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.0025, cost, 1e-12)
	assert.Equal(t, int64(100), in)
	assert.Equal(t, int64(50), out)
}

func TestHandleUsageLog_BadPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(tasks.TypeUsageLog, []byte("not json"))
	err := HandleUsageLog(UsageDeps{Store: memory.New()})(context.Background(), task)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestRegisterHandlers(t *testing.T) {
	mux := asynq.NewServeMux()
	RegisterHandlers(mux, UsageDeps{Store: memory.New()})

	h, pattern := mux.Handler(asynq.NewTask(tasks.TypeUsageLog, nil))
	require.NotNil(t, h)
	assert.Equal(t, tasks.TypeUsageLog, pattern)
}
