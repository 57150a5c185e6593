package cpu

import (
	"runtime"
	"testing"
)

func TestCoreFor(t *testing.T) {
	n := runtime.NumCPU()

	tests := []struct {
		worker int
		want   int
	}{
		{0, 0},
		{n, 0},
		{n + 1, 1 % n},
		{-1, 1 % n},
	}

	for _, tt := range tests {
		if got := coreFor(tt.worker); got != tt.want {
			t.Errorf("coreFor(%d) = %d, want %d", tt.worker, got, tt.want)
		}
	}
}

func TestPin_ReleaseAlwaysUsable(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)

		release, core, err := Pin(0)
		defer release()
		if err == nil && (core < 0 || core >= runtime.NumCPU()) {
			t.Errorf("pinned to core %d outside [0, %d)", core, runtime.NumCPU())
		}
	}()
	<-done
}
