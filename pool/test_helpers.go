package pool

import (
	"context"
	"testing"
	"time"
)

// poolSetup defines a named set of options a test runs against
type poolSetup struct {
	name string
	opts []Option
}

// getAllSetups returns the pool configurations every behavioural test must hold for
func getAllSetups(workerCount int) []poolSetup {
	return []poolSetup{
		{
			name: "Default",
			opts: []Option{WithWorkerCount(workerCount)},
		},
		{
			name: "TinyBuffer",
			opts: []Option{WithWorkerCount(workerCount), WithTaskBuffer(1)},
		},
		{
			name: "Pinned",
			opts: []Option{WithWorkerCount(workerCount), WithCPUAffinity(true)},
		},
	}
}

func runSetupTest(t *testing.T, testFunc func(t *testing.T, s poolSetup), workerCount int, additionalOpts ...Option) {
	for _, setup := range getAllSetups(workerCount) {
		setup.opts = append(setup.opts, additionalOpts...)
		t.Run(setup.name, func(t *testing.T) {
			testFunc(t, setup)
		})
	}
}

// startPool creates and starts a pool, shutting it down when the test ends
func startPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()

	p := New(opts...)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	t.Cleanup(func() {
		_ = p.Shutdown(5 * time.Second)
	})
	return p
}

// waitFor fails the test if ch is not closed within timeout
func waitFor(t *testing.T, ch <-chan struct{}, timeout time.Duration, what string) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("timeout waiting for %s", what)
	}
}
