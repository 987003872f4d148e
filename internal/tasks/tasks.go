package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"fabric-backend/internal/cache"
	"fabric-backend/internal/models"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue stage side effects are processed from
	QueueDefault = "default"
	// TypeStageSideEffects runs expense accrual or bill delivery for a stage change
	TypeStageSideEffects = "stage:side_effects"
)

// Runner performs the side effects of one stage change
type Runner interface {
	RunSideEffects(ctx context.Context, change models.StageChange) error
}

// NewStageSideEffectsTask constructs an asynq task carrying the job snapshot
func NewStageSideEffectsTask(change models.StageChange) (*asynq.Task, error) {
	data, err := json.Marshal(change)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeStageSideEffects, data), nil
}

// NewStageSideEffectsHandler processes TypeStageSideEffects tasks. Failures are
// logged and never retried.
func NewStageSideEffectsHandler(runner Runner) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var change models.StageChange
		if err := json.Unmarshal(t.Payload(), &change); err != nil {
			log.Printf("[Tasks] Dropping malformed %s payload: %v", t.Type(), err)
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}
		return run(ctx, runner, change)
	}
}

func run(ctx context.Context, runner Runner, change models.StageChange) error {
	err := runner.RunSideEffects(ctx, change)
	cache.InvalidateDashboardCaches(ctx)
	if err != nil {
		log.Printf("[Tasks] %s side effects for %s failed: %v", change.Stage, change.Job.JobID, err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return nil
}
