//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) (int, error) {
	cpuID = coreFor(cpuID)

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return 0, err
	}
	return cpuID, nil
}

// Pin locks the calling goroutine to its OS thread and pins that thread to
// the core derived from workerID. The thread stays locked even if pinning
// fails; release restores the thread's previous affinity, unlocks it, and
// must always be called.
func Pin(workerID int) (release func(), core int, err error) {
	runtime.LockOSThread()

	var prev unix.CPUSet
	saved := unix.SchedGetaffinity(0, &prev) == nil

	core, err = pinToCore(workerID)
	release = func() {
		if saved && err == nil {
			_ = unix.SchedSetaffinity(0, &prev)
		}
		runtime.UnlockOSThread()
	}
	return release, core, err
}
