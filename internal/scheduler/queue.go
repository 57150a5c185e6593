package scheduler

import (
	"errors"
	"sync"
)

var (
	ErrQueueClosed = errors.New("queue is closed")
)

const defaultInitialCapacity = 64

// Queue is an unbounded multi-producer multi-consumer FIFO.
//
// Enqueue never blocks, which keeps submission non-blocking for callers no
// matter how far behind the workers are. Consumers park on a notification
// channel; after Close they drain what is left and then see the queue as
// exhausted.
type Queue[T any] struct {
	mu     sync.Mutex
	ring   []T
	head   int
	size   int
	closed bool

	// Notification channel for data (BUFFERED, NEVER CLOSED)
	notifyC chan struct{}

	// Notification channel for shutdown (UNBUFFERED, CLOSED ON SHUTDOWN)
	closeC chan struct{}
}

// NewQueue creates a queue with the given initial capacity.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = defaultInitialCapacity
	}

	return &Queue[T]{
		ring:    make([]T, nextPowerOfTwo(capacity)),
		notifyC: make(chan struct{}, 1),
		closeC:  make(chan struct{}),
	}
}

// Enqueue appends a value at the tail.
// Returns ErrQueueClosed once Close has been called.
func (q *Queue[T]) Enqueue(value T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}

	if q.size == len(q.ring) {
		q.grow()
	}
	q.ring[(q.head+q.size)&(len(q.ring)-1)] = value
	q.size++
	q.mu.Unlock()

	q.notify()
	return nil
}

// TryDequeue removes the head without blocking.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.size == 0 {
		return zero, false
	}

	value := q.ring[q.head]
	q.ring[q.head] = zero
	q.head = (q.head + 1) & (len(q.ring) - 1)
	q.size--

	// Pass the wake-up on so another parked consumer picks up the rest.
	if q.size > 0 {
		q.notify()
	}
	return value, true
}

// Dequeue blocks until a value is available, the queue is closed and empty,
// or quit is closed. ok is false in the latter two cases.
func (q *Queue[T]) Dequeue(quit <-chan struct{}) (value T, ok bool) {
	for {
		if value, ok = q.TryDequeue(); ok {
			return value, true
		}

		q.mu.Lock()
		exhausted := q.closed && q.size == 0
		q.mu.Unlock()
		if exhausted {
			return value, false
		}

		select {
		case <-q.notifyC:
		case <-q.closeC:
		case <-quit:
			return value, false
		}
	}
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Close stops accepting values and wakes every parked consumer.
// Values already queued stay available to Dequeue. Safe to call more than once.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.closeC)
}

// IsClosed reports whether Close has been called.
func (q *Queue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue[T]) notify() {
	select {
	case q.notifyC <- struct{}{}:
	default:
	}
}

// grow doubles the ring, unwrapping it so head is at index 0. Caller holds mu.
func (q *Queue[T]) grow() {
	ring := make([]T, len(q.ring)*2)
	for i := range q.size {
		ring[i] = q.ring[(q.head+i)&(len(q.ring)-1)]
	}
	q.ring = ring
	q.head = 0
}

// nextPowerOfTwo returns the next power of 2 >= n
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	if n&(n-1) == 0 {
		return n
	}

	power := 1
	for power < n {
		power *= 2
	}
	return power
}
