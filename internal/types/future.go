package types

import (
	"context"
	"sync"
)

// Future holds the outcome of a single asynchronous job.
// It is resolved exactly once; every reader observes the same value and error.
//
// Type parameters:
//   - R: The type of the result value
type Future[R any] struct {
	value R
	err   error
	done  chan struct{}
	once  sync.Once
}

// NewFuture creates an unresolved Future.
func NewFuture[R any]() *Future[R] {
	return &Future[R]{
		done: make(chan struct{}),
	}
}

// Resolve stores the result and wakes every waiter.
// Only the first call has an effect; it reports whether this call resolved the future.
func (f *Future[R]) Resolve(value R, err error) bool {
	resolved := false
	f.once.Do(func() {
		f.value = value
		f.err = err
		resolved = true
		close(f.done)
	})
	return resolved
}

// Get blocks until the future is resolved and returns its result.
// Safe to call multiple times and from multiple goroutines.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetWithContext waits for the result or for ctx to be done, whichever happens first.
// A context error does not resolve the future; a later Get still returns the real result.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// TryGet returns the result without blocking.
// ready is false if the future has not been resolved yet.
func (f *Future[R]) TryGet() (value R, err error, ready bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero R
		return zero, nil, false
	}
}

// Done returns a channel that is closed once the future is resolved.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// IsReady reports whether the future has been resolved.
func (f *Future[R]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
