//go:build windows

package cpu

import (
	"runtime"
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) (int, error) {
	cpuID = coreFor(cpuID)

	handle, _, _ := getCurrentThread.Call()

	// Bit N = CPU N
	mask := uintptr(1) << uint(cpuID)

	prevMask, _, err := setThreadAffinityMask.Call(handle, mask)
	if prevMask == 0 {
		return 0, err
	}
	return cpuID, nil
}

// Pin locks the calling goroutine to its OS thread and pins that thread to
// the core derived from workerID. release must always be called.
func Pin(workerID int) (release func(), core int, err error) {
	runtime.LockOSThread()
	core, err = pinToCore(workerID)
	return runtime.UnlockOSThread, core, err
}
