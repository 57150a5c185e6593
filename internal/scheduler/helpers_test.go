package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/utkarsh5026/spellq/internal/types"
	"golang.org/x/time/rate"
)

func TestExecute(t *testing.T) {
	errTask := errors.New("task failed")

	tests := []struct {
		name      string
		run       func(ctx context.Context) error
		wantErr   error
		wantPanic bool
	}{
		{
			name:    "success",
			run:     func(ctx context.Context) error { return nil },
			wantErr: nil,
		},
		{
			name:    "error is passed through",
			run:     func(ctx context.Context) error { return errTask },
			wantErr: errTask,
		},
		{
			name:      "panic is recovered",
			run:       func(ctx context.Context) error { panic("engine exploded") },
			wantPanic: true,
		},
		{
			name:    "nil run completes",
			run:     nil,
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got error
			calls := 0
			job := types.NewJob(tt.name, tt.run, func(err error) {
				calls++
				got = err
			})

			ret := Execute(context.Background(), &Config{}, job)

			if calls != 1 {
				t.Fatalf("expected OnDone exactly once, got %d", calls)
			}
			if ret != got {
				t.Errorf("returned error %v differs from delivered error %v", ret, got)
			}
			if tt.wantPanic {
				if !errors.Is(got, ErrPanic) {
					t.Fatalf("expected ErrPanic, got %v", got)
				}
				if !strings.Contains(got.Error(), "engine exploded") {
					t.Errorf("panic value missing from error: %v", got)
				}
				if !strings.Contains(got.Error(), "stack trace") {
					t.Errorf("stack trace missing from error: %v", got)
				}
				return
			}
			if got != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, got)
			}
		})
	}
}

func TestExecute_CancelledContextSkipsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	var got error
	job := types.NewJob("skipped", func(ctx context.Context) error {
		ran = true
		return nil
	}, func(err error) { got = err })

	Execute(ctx, &Config{}, job)

	if ran {
		t.Error("Run should not be called on a cancelled context")
	}
	if !errors.Is(got, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", got)
	}
}

func TestExecute_Hooks(t *testing.T) {
	var mu sync.Mutex
	var events []string

	conf := &Config{
		BeforeTaskStart: func(j *types.Job) {
			mu.Lock()
			events = append(events, "start:"+j.Name)
			mu.Unlock()
		},
		OnTaskEnd: func(j *types.Job, err error) {
			mu.Lock()
			if err != nil {
				events = append(events, "end:"+j.Name+":error")
			} else {
				events = append(events, "end:"+j.Name)
			}
			mu.Unlock()
		},
	}

	Execute(context.Background(), conf, types.NewJob("ok", func(ctx context.Context) error { return nil }, nil))
	Execute(context.Background(), conf, types.NewJob("bad", func(ctx context.Context) error { return errors.New("x") }, nil))

	want := []string{"start:ok", "end:ok", "start:bad", "end:bad:error"}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], events[i])
		}
	}
}

func TestExecute_OnDonePanicIsContained(t *testing.T) {
	job := types.NewJob("sink", func(ctx context.Context) error { return nil }, func(err error) {
		panic("sink exploded")
	})

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Execute let an OnDone panic escape: %v", r)
		}
	}()

	if err := Execute(context.Background(), &Config{}, job); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestExecute_RateLimit(t *testing.T) {
	conf := &Config{RateLimiter: rate.NewLimiter(rate.Limit(20), 1)}

	start := time.Now()
	for range 4 {
		Execute(context.Background(), conf, types.NewJob("limited", nil, nil))
	}
	elapsed := time.Since(start)

	// burst 1 at 20/s: three waits of ~50ms after the first token.
	if elapsed < 120*time.Millisecond {
		t.Errorf("rate limit not applied, 4 jobs took %v", elapsed)
	}
}

func TestWorker_DrainsUntilClosed(t *testing.T) {
	q := NewQueue[Runnable](4)
	var mu sync.Mutex
	var order []int

	for i := range 10 {
		_ = q.Enqueue(func(ctx context.Context) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	q.Close()

	if err := Worker(context.Background(), 0, &Config{PinWorkers: true}, q); err != nil {
		t.Fatalf("Worker returned error: %v", err)
	}

	if len(order) != 10 {
		t.Fatalf("expected 10 runs, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("single worker broke FIFO order at %d: %v", i, order)
		}
	}
}
