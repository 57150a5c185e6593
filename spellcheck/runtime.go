package spellcheck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/utkarsh5026/spellq/dispatch"
	"github.com/utkarsh5026/spellq/engine"
	"github.com/utkarsh5026/spellq/pool"
	"go.uber.org/zap"
)

// Runtime ties a worker pool, a dispatch loop and an engine factory together.
// It is safe for concurrent use.
type Runtime struct {
	pool    *pool.Pool
	loop    *dispatch.Loop
	factory engine.Factory
	log     *zap.Logger

	mu       sync.Mutex
	checkers map[string]*Spellchecker
	closing  bool

	closeOnce sync.Once
	closeErr  error
}

// NewRuntime starts a runtime. ctx bounds the worker pool: once it is done
// queued tasks complete with its error and no new work is accepted.
func NewRuntime(ctx context.Context, opts ...Option) (*Runtime, error) {
	cfg := newRuntimeConfig(opts...)

	poolOpts := append([]pool.Option{pool.WithLogger(cfg.logger)}, cfg.poolOpts...)
	p := pool.New(poolOpts...)
	if err := p.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting worker pool: %w", err)
	}

	cfg.logger.Debug("spellcheck runtime started", zap.Int("workers", p.Workers()))

	return &Runtime{
		pool:     p,
		loop:     cfg.loop,
		factory:  cfg.factory,
		log:      cfg.logger,
		checkers: make(map[string]*Spellchecker),
	}, nil
}

// NewSpellchecker creates a spellchecker with a fresh engine from the factory.
func (rt *Runtime) NewSpellchecker() (*Spellchecker, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.closing || !rt.pool.IsRunning() {
		return nil, ErrClosed
	}

	eng, err := rt.factory()
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	if eng == nil {
		return nil, errors.New("creating engine: factory returned nil")
	}

	sc := &Spellchecker{
		id:     uuid.NewString(),
		rt:     rt,
		seq:    rt.pool.NewSequence(),
		engine: eng,
	}
	sc.log = rt.log.With(zap.String("spellchecker", sc.id))
	rt.checkers[sc.id] = sc

	sc.log.Debug("spellchecker created")
	return sc, nil
}

// Lookup returns the open spellchecker with the given ID.
func (rt *Runtime) Lookup(id string) (*Spellchecker, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sc, ok := rt.checkers[id]
	return sc, ok
}

// Len returns the number of open spellcheckers.
func (rt *Runtime) Len() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.checkers)
}

// Loop returns the loop completions are delivered through.
func (rt *Runtime) Loop() *dispatch.Loop {
	return rt.loop
}

// Run pumps completions on the calling goroutine until ctx is done or the
// runtime has shut down and every completion was delivered.
func (rt *Runtime) Run(ctx context.Context) error {
	err := rt.loop.Run(ctx)
	if errors.Is(err, dispatch.ErrLoopClosed) {
		return rt.loop.RunUntilIdle(ctx)
	}
	return err
}

// RunUntilIdle pumps completions until none is queued or in flight.
func (rt *Runtime) RunUntilIdle(ctx context.Context) error {
	return rt.loop.RunUntilIdle(ctx)
}

// Stats returns the pool's task counters.
func (rt *Runtime) Stats() pool.Stats {
	return rt.pool.Stats()
}

// Shutdown stops accepting work, lets every queued task finish, then closes
// all spellcheckers and the loop. Completions of the drained tasks stay
// queued on the loop; pump it afterwards to deliver them.
//
// If the pool does not drain within timeout, pool.ErrShutdownTimeout is
// returned and the engines are left open, since tasks may still use them.
// Calling Shutdown again waits for the pool once more and finishes the close.
func (rt *Runtime) Shutdown(timeout time.Duration) error {
	rt.mu.Lock()
	rt.closing = true
	rt.mu.Unlock()

	if err := rt.pool.Shutdown(timeout); err != nil && !errors.Is(err, pool.ErrPoolNotStarted) {
		rt.log.Warn("worker pool did not drain", zap.Error(err))
		return err
	}

	rt.closeOnce.Do(func() {
		var errs []error
		for _, sc := range rt.snapshot() {
			if err := sc.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing spellchecker %s: %w", sc.id, err))
			}
		}
		rt.closeErr = errors.Join(errs...)

		rt.loop.Close()
		rt.log.Debug("spellcheck runtime shut down", zap.Int64("delivered", rt.loop.Delivered()))
	})
	return rt.closeErr
}

func (rt *Runtime) snapshot() []*Spellchecker {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	out := make([]*Spellchecker, 0, len(rt.checkers))
	for _, sc := range rt.checkers {
		out = append(out, sc)
	}
	return out
}

func (rt *Runtime) forget(id string) {
	rt.mu.Lock()
	delete(rt.checkers, id)
	rt.mu.Unlock()
}
