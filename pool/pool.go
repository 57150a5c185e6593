package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/spellq/internal/scheduler"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrPoolNotStarted     = errors.New("pool not started")
	ErrPoolAlreadyStarted = errors.New("pool already started")
	ErrPoolClosed         = errors.New("pool shut down")
	ErrShutdownTimeout    = errors.New("error in shutting down: timeout reached")

	// ErrTaskPanicked is wrapped by the error a job reports when its Run panicked.
	ErrTaskPanicked = scheduler.ErrPanic
)

// Pool is a long-running, fixed-size set of worker goroutines draining one
// unbounded FIFO run queue. Work reaches the queue either as standalone jobs
// (Submit) or through sequences (NewSequence), which serialize their own jobs.
type Pool struct {
	conf  *scheduler.Config
	queue *scheduler.Queue[scheduler.Runnable]
	log   *zap.Logger

	mu       sync.Mutex
	started  atomic.Bool
	shutdown atomic.Bool
	done     chan struct{} // Closed when all workers have finished

	jobIDCounter atomic.Int64
	submitted    atomic.Int64
	completed    atomic.Int64
	failed       atomic.Int64
	panicked     atomic.Int64
}

// New creates a pool with the given options.
// This does NOT start any workers; use Start to begin processing.
//
// Example:
//
//	p := pool.New(pool.WithWorkerCount(4))
//	if err := p.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown(5 * time.Second)
func New(opts ...Option) *Pool {
	cfg := newPoolConfig(opts...)

	return &Pool{
		conf: &scheduler.Config{
			WorkerCount:     cfg.workerCount,
			QueueCapacity:   cfg.taskBuffer,
			RateLimiter:     cfg.rateLimiter,
			PinWorkers:      cfg.pinWorkers,
			BeforeTaskStart: cfg.beforeTaskStart,
			OnTaskEnd:       cfg.onTaskEnd,
			Logger:          cfg.logger,
		},
		queue: scheduler.NewQueue[scheduler.Runnable](cfg.taskBuffer),
		log:   cfg.logger,
		done:  make(chan struct{}),
	}
}

// Start launches the workers.
//
// ctx is handed to every job. When it is cancelled the pool stops accepting
// work and drains: queued jobs are completed with the context error instead
// of running.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started.Load() {
		return ErrPoolAlreadyStarted
	}
	if p.shutdown.Load() {
		return ErrPoolClosed
	}
	p.started.Store(true)

	var g errgroup.Group
	for i := range p.conf.WorkerCount {
		g.Go(func() error {
			return scheduler.Worker(ctx, int64(i), p.conf, p.queue)
		})
	}

	go func() {
		_ = g.Wait()
		close(p.done)
	}()

	go func() {
		select {
		case <-ctx.Done():
			p.shutdown.Store(true)
			p.queue.Close()
		case <-p.done:
		}
	}()

	p.log.Debug("pool started", zap.Int("workers", p.conf.WorkerCount))
	return nil
}

// Submit enqueues a standalone job. It never blocks.
// Standalone jobs run concurrently with each other and with sequences.
func (p *Pool) Submit(job *Job) error {
	if !p.accepting() {
		return p.notAcceptingErr()
	}

	job.ID = p.jobIDCounter.Add(1)
	p.submitted.Add(1)

	if err := p.queue.Enqueue(func(ctx context.Context) { p.execute(ctx, job) }); err != nil {
		// Lost the race with Shutdown; the job was accepted, so complete it.
		p.fail(job, ErrPoolClosed)
	}
	return nil
}

// NewSequence creates an execution slot on this pool. See Sequence.
func (p *Pool) NewSequence() *Sequence {
	return newSequence(p)
}

// Shutdown stops accepting work and waits for the workers to drain the queue.
// Every job accepted before Shutdown still runs to completion.
//
// Parameters:
//   - timeout: Maximum duration to wait for graceful shutdown (0 = wait forever)
//
// Returns:
//   - error: Non-nil if pool not started, already shut down, or timeout exceeded
func (p *Pool) Shutdown(timeout time.Duration) error {
	p.mu.Lock()
	if !p.started.Load() {
		p.mu.Unlock()
		return ErrPoolNotStarted
	}

	if !p.shutdown.CompareAndSwap(false, true) {
		p.mu.Unlock()
		// Already closing (explicitly or through context); just wait.
		return waitUntil(p.done, timeout)
	}
	p.mu.Unlock()

	p.queue.Close()
	err := waitUntil(p.done, timeout)
	p.log.Debug("pool shut down", zap.Error(err))
	return err
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.conf.WorkerCount
}

// IsRunning reports whether the pool is started and accepting work.
func (p *Pool) IsRunning() bool {
	return p.accepting()
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Panicked:  p.panicked.Load(),
		Queued:    p.queue.Len(),
	}
}

func (p *Pool) accepting() bool {
	return p.started.Load() && !p.shutdown.Load()
}

func (p *Pool) notAcceptingErr() error {
	if !p.started.Load() {
		return ErrPoolNotStarted
	}
	return ErrPoolClosed
}

// execute runs a job on the current worker and records its outcome.
func (p *Pool) execute(ctx context.Context, job *Job) {
	err := scheduler.Execute(ctx, p.conf, job)
	p.record(err)
}

// fail completes an accepted job that will never run.
func (p *Pool) fail(job *Job, err error) {
	scheduler.Fail(p.conf, job, err)
	p.record(err)
}

func (p *Pool) record(err error) {
	p.completed.Add(1)
	if err == nil {
		return
	}
	p.failed.Add(1)
	if errors.Is(err, ErrTaskPanicked) {
		p.panicked.Add(1)
	}
}

// waitUntil blocks until either the done channel is closed or the timeout is reached.
// It is used during graceful shutdown to wait for workers to complete their tasks.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	select {
	case <-d:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}
