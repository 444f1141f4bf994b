//go:build windows
// +build windows

package affinity

import (
	"runtime"
	"syscall"

	"github.com/intel/dto/api"
)

// pinCurrentThread pins the CPU core; NUMA steering has no counterpart in
// this code path since DSA hardware itself is linux+amd64 only (numaNode
// is accepted for interface symmetry but ignored).
func pinCurrentThread(numaNode, cpuID int) error {
	runtime.LockOSThread()
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	procSetThreadAffinityMask := kernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread := kernel32.NewProc("GetCurrentThread")
	hThread, _, _ := procGetCurrentThread.Call()
	mask := uintptr(1) << uint(cpuID)
	ret, _, err := procSetThreadAffinityMask.Call(hThread, mask)
	if ret == 0 {
		return err
	}
	return nil
}

func unpinCurrentThread() error {
	defer runtime.UnlockOSThread()
	return api.ErrNotSupported
}
