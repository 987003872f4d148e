package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"fabric-backend/internal/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	mu      sync.Mutex
	changes []models.StageChange
	err     error
}

func (r *recordingRunner) RunSideEffects(ctx context.Context, change models.StageChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
	return r.err
}

func (r *recordingRunner) seen() []models.StageChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.StageChange(nil), r.changes...)
}

func sampleChange() models.StageChange {
	at := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	return models.StageChange{
		Job: models.Job{
			JobID:        "FAB1709632800000",
			PartyName:    "Acme",
			FabricType:   "cotton",
			Quantity:     100,
			Rate:         20,
			MobileNumber: "9876543210",
			Stage:        models.StageCoated,
			CreatedAt:    at,
			UpdatedAt:    at,
		},
		Stage:     models.StageCoated,
		ChangedAt: at,
	}
}

func TestNewStageSideEffectsTask(t *testing.T) {
	change := sampleChange()
	task, err := NewStageSideEffectsTask(change)
	require.NoError(t, err)
	assert.Equal(t, TypeStageSideEffects, task.Type())

	var decoded models.StageChange
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, change.Job.JobID, decoded.Job.JobID)
	assert.Equal(t, models.StageCoated, decoded.Stage)
	assert.True(t, decoded.ChangedAt.Equal(change.ChangedAt))
}

func TestHandlerRunsSideEffects(t *testing.T) {
	runner := &recordingRunner{}
	task, err := NewStageSideEffectsTask(sampleChange())
	require.NoError(t, err)

	err = NewStageSideEffectsHandler(runner)(context.Background(), task)
	require.NoError(t, err)
	require.Len(t, runner.seen(), 1)
	assert.Equal(t, 100.0, runner.seen()[0].Job.Quantity)
}

func TestHandlerDoesNotRetryFailures(t *testing.T) {
	runner := &recordingRunner{err: errors.New("bill store offline")}
	task, err := NewStageSideEffectsTask(sampleChange())
	require.NoError(t, err)

	err = NewStageSideEffectsHandler(runner)(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandlerRejectsMalformedPayload(t *testing.T) {
	runner := &recordingRunner{}
	err := NewStageSideEffectsHandler(runner)(context.Background(), asynq.NewTask(TypeStageSideEffects, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, runner.seen())
}

func TestInlineQueue(t *testing.T) {
	runner := &recordingRunner{}
	q := NewInlineQueue(runner, time.Second)

	require.NoError(t, q.Enqueue(context.Background(), sampleChange()))
	require.NoError(t, q.Enqueue(context.Background(), sampleChange()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Wait(ctx))
	assert.Len(t, runner.seen(), 2)
}

func TestInlineQueueSwallowsFailures(t *testing.T) {
	runner := &recordingRunner{err: errors.New("whatsapp down")}
	q := NewInlineQueue(runner, time.Second)

	require.NoError(t, q.Enqueue(context.Background(), sampleChange()))
	require.NoError(t, q.Wait(context.Background()))
	assert.Len(t, runner.seen(), 1)
}
