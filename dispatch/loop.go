// Package dispatch delivers results of background work to a single consumer goroutine.
//
// A Loop is the consumer's event loop. Workers hand finished results to it
// with Post or through a reserved Completion; the results are only ever run
// by the goroutine calling Run or RunUntilIdle. The hand-off goes through the
// loop's mutex, so everything a worker wrote before posting is visible to the
// callback.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrLoopClosed     = errors.New("dispatch loop closed")
	ErrConcurrentPump = errors.New("dispatch loop is already being pumped by another goroutine")
)

// Loop is an unbounded queue of callbacks drained by one goroutine at a time.
type Loop struct {
	mu          sync.Mutex
	queue       []func()
	outstanding int // reserved completions not resolved yet
	closed      bool

	notifyC chan struct{} // buffered, never closed
	closeC  chan struct{} // closed by Close

	pumping   atomic.Bool
	delivered atomic.Int64
}

// New creates an open loop.
func New() *Loop {
	return &Loop{
		notifyC: make(chan struct{}, 1),
		closeC:  make(chan struct{}),
	}
}

// Post queues fn to run on the consumer goroutine. Safe from any goroutine; never blocks.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	l.notify()
	return nil
}

// Reserve registers an outstanding result. RunUntilIdle does not consider
// the loop idle while a reservation is unresolved.
func (l *Loop) Reserve() (*Completion, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrLoopClosed
	}
	l.outstanding++
	return &Completion{loop: l}, nil
}

// Run pumps callbacks on the calling goroutine until ctx is done or the loop
// is closed. After Close it still delivers what is already queued.
func (l *Loop) Run(ctx context.Context) error {
	if !l.pumping.CompareAndSwap(false, true) {
		return ErrConcurrentPump
	}
	defer l.pumping.Store(false)

	for {
		l.drain()

		select {
		case <-l.notifyC:
		case <-l.closeC:
			l.drain()
			return ErrLoopClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunUntilIdle pumps callbacks until nothing is queued and no reservation is
// outstanding, or ctx is done. Callbacks may reserve or post more work; the
// loop keeps going until that work has been delivered too.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	if !l.pumping.CompareAndSwap(false, true) {
		return ErrConcurrentPump
	}
	defer l.pumping.Store(false)

	for {
		l.drain()

		if l.idle() {
			return nil
		}

		select {
		case <-l.notifyC:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Pending returns the number of queued callbacks plus unresolved reservations.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue) + l.outstanding
}

// Delivered returns how many callbacks have run.
func (l *Loop) Delivered() int64 {
	return l.delivered.Load()
}

// Close stops accepting Post and Reserve. Completions reserved earlier can
// still resolve and are delivered by a later pump. Safe to call more than once.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	close(l.closeC)
}

// drain runs every callback queued at the time of each pop.
func (l *Loop) drain() {
	for {
		fn, ok := l.pop()
		if !ok {
			return
		}
		l.delivered.Add(1)
		fn()
	}
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue) == 0 && l.outstanding == 0
}

func (l *Loop) notify() {
	select {
	case l.notifyC <- struct{}{}:
	default:
	}
}

// Completion is a one-shot slot for a result that will be produced elsewhere.
type Completion struct {
	loop *Loop
	done atomic.Bool
}

// Resolve queues fn for delivery and releases the reservation.
// Only the first Resolve or Discard has an effect; Resolve reports whether fn was queued.
func (c *Completion) Resolve(fn func()) bool {
	if !c.done.CompareAndSwap(false, true) {
		return false
	}

	l := c.loop
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.outstanding--
	l.mu.Unlock()

	l.notify()
	return true
}

// Discard releases the reservation without delivering anything. Used when
// the work the reservation was taken for could not be started.
func (c *Completion) Discard() {
	if !c.done.CompareAndSwap(false, true) {
		return
	}

	l := c.loop
	l.mu.Lock()
	l.outstanding--
	l.mu.Unlock()

	l.notify()
}

// Resolved reports whether Resolve or Discard has been called.
func (c *Completion) Resolved() bool {
	return c.done.Load()
}
