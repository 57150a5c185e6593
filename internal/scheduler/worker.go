package scheduler

import (
	"context"

	"github.com/utkarsh5026/spellq/internal/cpu"
	"go.uber.org/zap"
)

// Runnable is a queued unit of work handed to a worker.
type Runnable func(ctx context.Context)

// Worker runs the event loop for one worker goroutine.
//
// It keeps taking work until the queue is closed and drained. Context
// cancellation does not stop the loop: queued work still runs so that every
// job reaches its OnDone, and Execute short-circuits jobs on a done context.
func Worker(ctx context.Context, workerID int64, conf *Config, q *Queue[Runnable]) error {
	if conf.PinWorkers {
		release, core, err := cpu.Pin(int(workerID))
		defer release()
		if err != nil {
			conf.logger().Debug("cpu pinning unavailable", zap.Int64("worker", workerID), zap.Error(err))
		} else {
			conf.logger().Debug("worker pinned", zap.Int64("worker", workerID), zap.Int("cpu", core))
		}
	}

	for {
		run, ok := q.Dequeue(nil)
		if !ok {
			return nil
		}
		run(ctx)
	}
}
