//go:build darwin

package cpu

import (
	"runtime"
)

// Pin locks the goroutine to an OS thread.
// CPU pinning is not available on macOS, so the returned error is always ErrPinUnsupported.
func Pin(workerID int) (release func(), core int, err error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, coreFor(workerID), ErrPinUnsupported
}
