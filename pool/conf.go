package pool

import (
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Option is a functional option for configuring the pool.
type Option func(*poolConfig)

type poolConfig struct {
	workerCount     int
	taskBuffer      int
	rateLimiter     *rate.Limiter
	pinWorkers      bool
	beforeTaskStart func(*Job)
	onTaskEnd       func(*Job, error)
	logger          *zap.Logger
}

func newPoolConfig(opts ...Option) *poolConfig {
	cfg := &poolConfig{
		workerCount: runtime.GOMAXPROCS(0),
		taskBuffer:  0, // Will be set to workerCount if not specified
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.taskBuffer == 0 {
		cfg.taskBuffer = cfg.workerCount
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}
	return cfg
}

// WithWorkerCount sets the number of concurrent workers.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) Option {
	return func(cfg *poolConfig) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithTaskBuffer sets the initial capacity of the run queue.
// The queue grows beyond it on demand, so submission never blocks.
// If not specified, defaults to the number of workers.
func WithTaskBuffer(size int) Option {
	return func(cfg *poolConfig) {
		if size >= 0 {
			cfg.taskBuffer = size
		}
	}
}

// WithRateLimit sets a rate limiter for controlling job throughput.
// tasksPerSecond specifies the maximum number of jobs started per second.
// burst specifies the maximum number of jobs that can start in a burst.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 jobs/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithCPUAffinity locks every worker to an OS thread and, on Linux and
// Windows, pins it to a CPU core (worker i → core i mod NumCPU).
func WithCPUAffinity(enabled bool) Option {
	return func(cfg *poolConfig) {
		cfg.pinWorkers = enabled
	}
}

// WithBeforeTaskStart sets a hook called on the worker right before a job runs.
func WithBeforeTaskStart(hook func(*Job)) Option {
	return func(cfg *poolConfig) {
		cfg.beforeTaskStart = hook
	}
}

// WithOnTaskEnd sets a hook called on the worker after a job finished, before its OnDone.
// It also sees jobs that were failed without running.
func WithOnTaskEnd(hook func(*Job, error)) Option {
	return func(cfg *poolConfig) {
		cfg.onTaskEnd = hook
	}
}

// WithLogger sets the logger used by this pool.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *poolConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}
