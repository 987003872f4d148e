package tasks

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// ShutdownTimeout bounds how long Run waits for in-flight side effects after cancellation
const ShutdownTimeout = 20 * time.Second

// Worker wraps the asynq server that executes stage side effects
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker constructs a Worker processing QueueDefault with the given concurrency
func NewWorker(redisOpts asynq.RedisClientOpt, runner Runner, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency:     concurrency,
		ShutdownTimeout: ShutdownTimeout,
		Queues: map[string]int{
			QueueDefault: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, t *asynq.Task, err error) {
			log.Printf("[Tasks] %s failed: %v", t.Type(), err)
		}),
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeStageSideEffects, NewStageSideEffectsHandler(runner))
	return &Worker{server: srv, mux: mux}
}

// Run processes tasks until ctx is cancelled. It returns once in-flight tasks
// have finished or the asynq shutdown timeout has passed.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	<-ctx.Done()
	w.server.Shutdown()
	return nil
}
