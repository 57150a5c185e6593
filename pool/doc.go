// Package pool provides a long-running worker pool with per-owner
// execution slots for asynchronous, non-blocking job submission.
//
// The primary type is Pool, a fixed set of worker goroutines draining an
// unbounded FIFO run queue. Work is submitted either directly, or through a
// Sequence: an execution slot whose jobs run strictly one at a time in post
// order, while different sequences run concurrently on the shared workers.
//
// # Basic Usage
//
//	p := pool.New(pool.WithWorkerCount(4))
//	if err := p.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown(5 * time.Second)
//
//	seq := p.NewSequence()
//	_ = seq.Post(pool.NewJob("scan", func(ctx context.Context) error {
//	    return scan(ctx)
//	}, func(err error) {
//	    // called exactly once, on the worker, after Run returned
//	}))
//
// # Synchronous Calls
//
// Await runs a function through a sequence and waits for it, so blocking
// calls and queued jobs against the same resource never overlap:
//
//	n, err := pool.Await(seq, "count", func(ctx context.Context) (int, error) {
//	    return resource.Count(), nil
//	})
//
// # Configuration Options
//
//   - WithWorkerCount(n): Set number of concurrent workers (default: GOMAXPROCS)
//   - WithTaskBuffer(n): Set the initial run queue capacity (default: worker count)
//   - WithRateLimit(tasksPerSecond, burst): Throttle job starts
//   - WithCPUAffinity(true): Lock workers to OS threads and pin them to cores
//   - WithBeforeTaskStart / WithOnTaskEnd: Observe jobs on the worker
//   - WithLogger(l): Use a specific zap logger
//
// # Error Handling
//
// A job's outcome always reaches its OnDone exactly once: its own error, a
// recovered panic (wrapping ErrTaskPanicked, with a stack trace), or the
// context error when the pool context was cancelled before the job ran.
// Workers survive panics and keep serving. Nothing is retried.
//
// Shutdown stops accepting work and drains: jobs accepted before it still run.
package pool
