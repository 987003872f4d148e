package tasks

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fabric-backend/internal/models"

	"github.com/hibiken/asynq"
)

// AsynqQueue submits stage side effects to Redis
type AsynqQueue struct {
	client *asynq.Client
}

func NewAsynqQueue(redisOpts asynq.RedisClientOpt) *AsynqQueue {
	return &AsynqQueue{client: asynq.NewClient(redisOpts)}
}

func (q *AsynqQueue) Enqueue(ctx context.Context, change models.StageChange) error {
	task, err := NewStageSideEffectsTask(change)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(0))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeStageSideEffects, err)
	}
	log.Printf("[Tasks] Queued %s for %s (%s)", change.Stage, change.Job.JobID, info.ID)
	return nil
}

func (q *AsynqQueue) Close() error {
	return q.client.Close()
}

// InlineQueue runs side effects on goroutines in this process. It is used
// when Redis is unavailable; Wait lets shutdown drain in-flight work.
type InlineQueue struct {
	runner  Runner
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewInlineQueue(runner Runner, timeout time.Duration) *InlineQueue {
	return &InlineQueue{runner: runner, timeout: timeout}
}

func (q *InlineQueue) Enqueue(ctx context.Context, change models.StageChange) error {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		runCtx, cancel := context.WithTimeout(context.Background(), q.timeout)
		defer cancel()
		_ = run(runCtx, q.runner, change)
	}()
	return nil
}

// Wait blocks until in-flight side effects finish or ctx is done
func (q *InlineQueue) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
