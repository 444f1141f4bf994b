// Package affinity pins the calling OS thread to a CPU core and, on Linux,
// a NUMA node. The waiter uses this during BusyPoll/Umwait so a spin loop
// never migrates mid-wait: a goroutine, unlike a pthread, can hop OS
// threads at any safepoint unless explicitly pinned.
package affinity

// PinCurrentThread pins the calling OS thread to cpuID and, where
// supported, steers its memory allocation toward numaNode. numaNode < 0
// skips NUMA steering. On Linux and Windows it first calls
// runtime.LockOSThread, since a pin outlives the call only as long as the
// goroutine stays on the same OS thread.
func PinCurrentThread(numaNode, cpuID int) error {
	return pinCurrentThread(numaNode, cpuID)
}

// UnpinCurrentThread releases a previous pin and the OS-thread lock. On
// Linux it restores affinity to every online CPU; on Windows the affinity
// mask is left as set and ErrNotSupported is returned.
func UnpinCurrentThread() error {
	return unpinCurrentThread()
}
