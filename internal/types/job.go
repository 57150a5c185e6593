package types

import "context"

// Job is one unit of background work.
//
// Run executes on a worker goroutine. OnDone is invoked exactly once after Run
// returns, on the same goroutine, with Run's error, a recovered panic, or the
// reason Run was skipped. Results produced by Run are handed over through
// variables captured by both closures: OnDone always observes Run's writes.
type Job struct {
	// ID is assigned by the pool on submission.
	ID int64

	// Name labels the job in hooks and logs.
	Name string

	Run    func(ctx context.Context) error
	OnDone func(err error)
}

// NewJob creates a named job.
func NewJob(name string, run func(ctx context.Context) error, onDone func(err error)) *Job {
	return &Job{
		Name:   name,
		Run:    run,
		OnDone: onDone,
	}
}

// Finish invokes OnDone if one is set.
func (j *Job) Finish(err error) {
	if j.OnDone != nil {
		j.OnDone(err)
	}
}
