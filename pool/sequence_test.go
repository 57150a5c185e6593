package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSequence_OrderAndExclusion(t *testing.T) {
	runSetupTest(t, func(t *testing.T, s poolSetup) {
		p := startPool(t, s.opts...)
		seq := p.NewSequence()

		const n = 200
		var inFlight atomic.Int32
		var overlap atomic.Bool
		var mu sync.Mutex
		order := make([]int, 0, n)
		allDone := make(chan struct{})
		var completed atomic.Int32

		for i := range n {
			job := NewJob("ordered", func(ctx context.Context) error {
				if inFlight.Add(1) > 1 {
					overlap.Store(true)
				}
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				inFlight.Add(-1)
				return nil
			}, func(err error) {
				if completed.Add(1) == n {
					close(allDone)
				}
			})
			if err := seq.Post(job); err != nil {
				t.Fatalf("Post %d failed: %v", i, err)
			}
		}

		waitFor(t, allDone, 5*time.Second, "sequence to finish")

		if overlap.Load() {
			t.Error("jobs of one sequence overlapped")
		}
		for i, v := range order {
			if v != i {
				t.Fatalf("sequence broke post order at %d: got %d", i, v)
			}
		}
	}, 4)
}

func TestSequence_IndependentSequencesRunConcurrently(t *testing.T) {
	p := startPool(t, WithWorkerCount(2))

	a := p.NewSequence()
	b := p.NewSequence()

	// Each job waits for the other sequence's job; this only finishes if
	// both sequences are running at the same time.
	aStarted := make(chan struct{})
	bStarted := make(chan struct{})
	done := make(chan struct{}, 2)

	_ = a.Post(NewJob("a", func(ctx context.Context) error {
		close(aStarted)
		<-bStarted
		return nil
	}, func(error) { done <- struct{}{} }))

	_ = b.Post(NewJob("b", func(ctx context.Context) error {
		close(bStarted)
		<-aStarted
		return nil
	}, func(error) { done <- struct{}{} }))

	for range 2 {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("independent sequences did not run concurrently")
		}
	}
}

func TestSequence_Fairness(t *testing.T) {
	p := startPool(t, WithWorkerCount(1))

	busy := p.NewSequence()
	other := p.NewSequence()

	gate := make(chan struct{})
	var busyRuns atomic.Int32
	otherDone := make(chan int32, 1)

	_ = busy.Post(NewJob("gate", func(ctx context.Context) error {
		<-gate
		return nil
	}, nil))
	for range 100 {
		_ = busy.Post(NewJob("busy", func(ctx context.Context) error {
			busyRuns.Add(1)
			return nil
		}, nil))
	}
	_ = other.Post(NewJob("other", func(ctx context.Context) error {
		otherDone <- busyRuns.Load()
		return nil
	}, nil))

	close(gate)

	select {
	case ran := <-otherDone:
		// The busy sequence yields after every job, so the other sequence
		// gets the single worker long before the backlog is drained.
		if ran > 5 {
			t.Errorf("other sequence waited for %d busy jobs", ran)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("other sequence never ran")
	}
}

func TestSequence_PanicDoesNotStopSequence(t *testing.T) {
	p := startPool(t, WithWorkerCount(1))
	seq := p.NewSequence()

	var first error
	second := make(chan struct{})

	_ = seq.Post(NewJob("explode", func(ctx context.Context) error {
		panic("boom")
	}, func(err error) { first = err }))

	_ = seq.Post(NewJob("after", func(ctx context.Context) error {
		close(second)
		return nil
	}, nil))

	waitFor(t, second, time.Second, "job after panic")
	seq.Wait()

	if !errors.Is(first, ErrTaskPanicked) {
		t.Errorf("expected ErrTaskPanicked, got %v", first)
	}
	if st := p.Stats(); st.Panicked != 1 {
		t.Errorf("expected 1 panicked job in stats, got %d", st.Panicked)
	}
}

func TestSequence_WaitAndClose(t *testing.T) {
	p := startPool(t, WithWorkerCount(2))
	seq := p.NewSequence()

	var ran atomic.Int32
	for range 20 {
		_ = seq.Post(NewJob("work", func(ctx context.Context) error {
			time.Sleep(time.Millisecond)
			ran.Add(1)
			return nil
		}, nil))
	}

	seq.Close()

	if ran.Load() != 20 {
		t.Errorf("Close returned before all jobs ran: %d/20", ran.Load())
	}
	if seq.Len() != 0 {
		t.Errorf("expected empty sequence, got %d pending", seq.Len())
	}
	if err := seq.Post(NewJob("late", nil, nil)); !errors.Is(err, ErrSequenceClosed) {
		t.Errorf("expected ErrSequenceClosed, got %v", err)
	}

	seq.Close() // idempotent
}

func TestSequence_WaitOnIdleSequence(t *testing.T) {
	p := startPool(t, WithWorkerCount(1))
	seq := p.NewSequence()

	done := make(chan struct{})
	go func() {
		seq.Wait()
		close(done)
	}()

	waitFor(t, done, time.Second, "Wait on an idle sequence")
}

func TestAwait(t *testing.T) {
	p := startPool(t, WithWorkerCount(4))
	seq := p.NewSequence()

	t.Run("returns value", func(t *testing.T) {
		v, err := Await(seq, "answer", func(ctx context.Context) (int, error) {
			return 42, nil
		})
		if err != nil || v != 42 {
			t.Errorf("expected (42, nil), got (%d, %v)", v, err)
		}
	})

	t.Run("returns error", func(t *testing.T) {
		want := errors.New("not found")
		_, err := Await(seq, "fail", func(ctx context.Context) (string, error) {
			return "", want
		})
		if !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	})

	t.Run("recovers panic", func(t *testing.T) {
		_, err := Await(seq, "panic", func(ctx context.Context) (bool, error) {
			panic("bad engine")
		})
		if !errors.Is(err, ErrTaskPanicked) {
			t.Errorf("expected ErrTaskPanicked, got %v", err)
		}
	})

	t.Run("serialized with queued jobs", func(t *testing.T) {
		var mu sync.Mutex
		var events []string

		gate := make(chan struct{})
		_ = seq.Post(NewJob("queued", func(ctx context.Context) error {
			<-gate
			mu.Lock()
			events = append(events, "queued")
			mu.Unlock()
			return nil
		}, nil))

		go func() {
			time.Sleep(20 * time.Millisecond)
			close(gate)
		}()

		_, _ = Await(seq, "sync", func(ctx context.Context) (struct{}, error) {
			mu.Lock()
			events = append(events, "sync")
			mu.Unlock()
			return struct{}{}, nil
		})

		mu.Lock()
		defer mu.Unlock()
		if len(events) != 2 || events[0] != "queued" || events[1] != "sync" {
			t.Errorf("synchronous call overtook a queued job: %v", events)
		}
	})

	t.Run("closed sequence", func(t *testing.T) {
		closed := p.NewSequence()
		closed.Close()

		_, err := Await(closed, "late", func(ctx context.Context) (int, error) { return 1, nil })
		if !errors.Is(err, ErrSequenceClosed) {
			t.Errorf("expected ErrSequenceClosed, got %v", err)
		}
	})
}

func TestSchedule(t *testing.T) {
	p := startPool(t, WithWorkerCount(2))
	seq := p.NewSequence()

	futures := make([]*Future[int], 10)
	for i := range futures {
		f, err := Schedule(seq, "square", func(ctx context.Context) (int, error) {
			return i * i, nil
		})
		if err != nil {
			t.Fatalf("Schedule failed: %v", err)
		}
		futures[i] = f
	}

	for i, f := range futures {
		v, err := f.Get()
		if err != nil || v != i*i {
			t.Errorf("future %d: expected (%d, nil), got (%d, %v)", i, i*i, v, err)
		}
	}
}
