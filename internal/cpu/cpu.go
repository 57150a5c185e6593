// Package cpu locks pool workers to OS threads and pins them to cores.
package cpu

import (
	"errors"
	"runtime"
)

// ErrPinUnsupported is returned by Pin on platforms without thread affinity.
var ErrPinUnsupported = errors.New("cpu pinning not supported on this platform")

// coreFor maps a worker ID onto the range [0, runtime.NumCPU()).
func coreFor(workerID int) int {
	n := runtime.NumCPU()
	if workerID < 0 {
		workerID = -workerID
	}
	return workerID % n
}
