package pool

import (
	"context"

	"github.com/utkarsh5026/spellq/internal/types"
)

// Job is one unit of background work. See NewJob.
type Job = types.Job

// Future holds the result of a job scheduled with Schedule.
type Future[R any] = types.Future[R]

// NewJob creates a named job. run executes on a worker goroutine; onDone is
// called exactly once afterwards on the same goroutine, with run's error, a
// recovered panic (wrapping ErrTaskPanicked), or the reason run was skipped.
func NewJob(name string, run func(ctx context.Context) error, onDone func(err error)) *Job {
	return types.NewJob(name, run, onDone)
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Submitted int64 // jobs accepted by Submit or Sequence.Post
	Completed int64 // jobs whose OnDone has been called
	Failed    int64 // completed jobs that ended with an error (including panics)
	Panicked  int64 // completed jobs whose Run panicked
	Queued    int   // runnables waiting for a worker
}

// NewFuture creates an unresolved Future.
func NewFuture[R any]() *Future[R] {
	return types.NewFuture[R]()
}
