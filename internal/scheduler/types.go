package scheduler

import (
	"github.com/utkarsh5026/spellq/internal/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config holds the execution settings shared by every worker of a pool.
type Config struct {
	// Number of worker goroutines.
	WorkerCount int

	// Initial capacity of the run queue. The queue grows past it; it is never a bound.
	QueueCapacity int

	// Optional token bucket rate limiter applied per job (may be nil).
	RateLimiter *rate.Limiter

	// Lock each worker to an OS thread and pin it to a CPU where supported.
	PinWorkers bool

	// Hook called before a job runs.
	BeforeTaskStart func(*types.Job)

	// Hook called after a job finished, with its final error.
	OnTaskEnd func(*types.Job, error)

	Logger *zap.Logger
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
