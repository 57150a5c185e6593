package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/utkarsh5026/spellq/internal/types"
	"go.uber.org/zap"
)

var (
	// ErrPanic marks errors produced by recovering a panicking job.
	ErrPanic = errors.New("worker panic")
)

// Execute runs a job with rate limiting, hooks and panic recovery, then hands
// the outcome to the job's OnDone. It never panics itself, so a worker survives
// any job. The returned error is the one passed to OnDone.
func Execute(ctx context.Context, conf *Config, job *types.Job) error {
	err := executeJob(ctx, conf, job)

	if conf.OnTaskEnd != nil {
		conf.OnTaskEnd(job, err)
	}

	if errors.Is(err, ErrPanic) {
		conf.logger().Warn("recovered panic in job",
			zap.String("job", job.Name),
			zap.Int64("id", job.ID),
			zap.Error(err))
	}

	finish(conf, job, err)
	return err
}

// executeJob encapsulates the common logic for executing a job: rate limiting,
// the BeforeTaskStart hook and processing with recovery.
func executeJob(ctx context.Context, conf *Config, job *types.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if conf.RateLimiter != nil {
		if err := conf.RateLimiter.Wait(ctx); err != nil {
			// Rate limiter's error doesn't wrap context errors, so check context explicitly
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
	}

	if conf.BeforeTaskStart != nil {
		conf.BeforeTaskStart(job)
	}

	return processWithRecovery(ctx, job)
}

// processWithRecovery executes a job with panic recovery.
// If a panic occurs, it's converted to an error to prevent crashing the worker.
func processWithRecovery(ctx context.Context, job *types.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()

	if job.Run == nil {
		return nil
	}
	return job.Run(ctx)
}

// finish calls OnDone. A panic raised by OnDone is logged and swallowed:
// the completion was already attempted and must not be retried.
func finish(conf *Config, job *types.Job, err error) {
	defer func() {
		if r := recover(); r != nil {
			conf.logger().Error("job completion panicked",
				zap.String("job", job.Name),
				zap.Int64("id", job.ID),
				zap.Error(panicError(r)))
		}
	}()
	job.Finish(err)
}

func panicError(r any) error {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return fmt.Errorf("%w: %v\nstack trace:\n%s", ErrPanic, r, buf[:n])
}

// Fail completes a job that will never run, reporting err to the OnTaskEnd
// hook and to the job's OnDone.
func Fail(conf *Config, job *types.Job, err error) {
	if conf.OnTaskEnd != nil {
		conf.OnTaskEnd(job, err)
	}
	finish(conf, job, err)
}
