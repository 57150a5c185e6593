package pool

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrSequenceClosed = errors.New("sequence closed")
)

// Sequence is an execution slot on a Pool: jobs posted to it run one at a
// time, in post order, never overlapping. Different sequences share the
// pool's workers and run concurrently with each other.
//
// A sequence holds no goroutine of its own. When it has work it occupies one
// place in the pool's run queue; a worker runs exactly one job per turn and
// puts the sequence back at the tail if more jobs are pending, so a busy
// sequence cannot starve the others.
//
// Resources owned by a sequence (for instance a non-thread-safe engine) need
// no lock as long as every access is posted to it.
type Sequence struct {
	pool *Pool

	mu          sync.Mutex
	idle        *sync.Cond // broadcast when outstanding drops to zero
	pending     []*Job
	outstanding int // posted jobs whose OnDone has not returned yet
	running     bool
	closed      bool
}

func newSequence(p *Pool) *Sequence {
	s := &Sequence{pool: p}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Post appends a job to the sequence. It never blocks.
//
// A nil error means the job's OnDone will be called exactly once. A non-nil
// error (ErrSequenceClosed, ErrPoolClosed, ErrPoolNotStarted) means the job
// was not accepted and OnDone will not be called.
func (s *Sequence) Post(job *Job) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSequenceClosed
	}
	if !s.pool.accepting() {
		s.mu.Unlock()
		return s.pool.notAcceptingErr()
	}

	job.ID = s.pool.jobIDCounter.Add(1)
	s.pool.submitted.Add(1)
	s.pending = append(s.pending, job)
	s.outstanding++

	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	if err := s.pool.queue.Enqueue(s.turn); err != nil {
		s.failPending(ErrPoolClosed)
	}
	return nil
}

// Wait blocks until every job posted so far has completed.
func (s *Sequence) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.outstanding > 0 {
		s.idle.Wait()
	}
}

// Close rejects further posts and waits for the jobs already posted.
// Safe to call more than once. It must not be called from one of the
// sequence's own jobs.
func (s *Sequence) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.Wait()
}

// Len returns the number of jobs waiting to run.
func (s *Sequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// turn runs on a worker. It executes the head job and hands the sequence back
// to the pool if more work is pending. When the pool is shutting down the
// queue no longer accepts the sequence, so the rest of it is drained here, in
// order.
func (s *Sequence) turn(ctx context.Context) {
	for {
		s.mu.Lock()
		job := s.pending[0]
		s.pending[0] = nil
		s.pending = s.pending[1:]
		s.mu.Unlock()

		s.pool.execute(ctx, job)

		s.mu.Lock()
		s.done(1)
		if len(s.pending) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		if err := s.pool.queue.Enqueue(s.turn); err == nil {
			return
		}
	}
}

// failPending completes every pending job with err. Used only when the
// sequence could not be scheduled at all, so no turn is in flight.
func (s *Sequence) failPending(err error) {
	s.mu.Lock()
	jobs := s.pending
	s.pending = nil
	s.running = false
	s.mu.Unlock()

	for _, job := range jobs {
		s.pool.fail(job, err)
	}

	s.mu.Lock()
	s.done(len(jobs))
	s.mu.Unlock()
}

// done marks n jobs completed. Caller holds mu.
func (s *Sequence) done(n int) {
	s.outstanding -= n
	if s.outstanding == 0 {
		s.idle.Broadcast()
	}
}

// Schedule posts fn to the sequence and returns a Future for its result.
func Schedule[R any](s *Sequence, name string, fn func(ctx context.Context) (R, error)) (*Future[R], error) {
	future := NewFuture[R]()

	var value R
	job := NewJob(name, func(ctx context.Context) error {
		var err error
		value, err = fn(ctx)
		return err
	}, func(err error) {
		future.Resolve(value, err)
	})

	if err := s.Post(job); err != nil {
		return nil, err
	}
	return future, nil
}

// Await runs fn through the sequence and blocks until it has completed.
// It is how synchronous calls share the slot with asynchronous jobs: fn
// starts only after every job posted before it, and nothing posted after it
// starts before fn returns.
func Await[R any](s *Sequence, name string, fn func(ctx context.Context) (R, error)) (R, error) {
	future, err := Schedule(s, name, fn)
	if err != nil {
		var zero R
		return zero, err
	}
	return future.Get()
}
