//go:build !linux && !darwin && !windows

package cpu

// Pin is a no-op where neither thread locking nor pinning is wired.
func Pin(workerID int) (release func(), core int, err error) {
	return func() {}, coreFor(workerID), ErrPinUnsupported
}
