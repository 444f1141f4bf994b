//go:build linux && amd64
// +build linux,amd64

// NUMA node queries via raw move_pages(2)/getcpu(2) syscalls, avoiding a
// libnuma binding. Grounded on the teacher's raw io_uring syscalls in
// internal/transport/transport_linux_uring.go (unix.Syscall6 + hardcoded
// syscall numbers) and the original's get_numa_node()/move_pages() call
// (_examples/original_source/dto.c).
package dispatch

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	sysMovePages = 279
	sysGetCPU    = 309

	pageSize = 4096

	mpolMFMove = 0 // status-only query: no move requested
)

// bufferNUMANode reports the NUMA node backing the page containing buf.
func bufferNUMANode(buf unsafe.Pointer) (int, bool) {
	page := uintptr(buf) &^ (pageSize - 1)
	pages := [1]unsafe.Pointer{unsafe.Pointer(page)}
	var status [1]int32

	_, _, errno := unix.Syscall6(
		sysMovePages,
		0, // self
		1,
		uintptr(unsafe.Pointer(&pages[0])),
		0, // nodes == NULL: query only, don't move
		uintptr(unsafe.Pointer(&status[0])),
		mpolMFMove,
	)
	if errno != 0 || status[0] < 0 {
		return 0, false
	}
	return int(status[0]), true
}

// currentCPUNUMANode reports the NUMA node of the CPU this goroutine's
// current OS thread is running on.
func currentCPUNUMANode() (int, bool) {
	cpu, node, ok := currentCPUAndNode()
	_ = cpu
	return node, ok
}

// currentCPU reports the logical CPU this goroutine's current OS thread is
// running on, used to pin the OS thread in place for the duration of a
// busy-poll/umwait spin (spec §4.E).
func currentCPU() (int, bool) {
	cpu, _, ok := currentCPUAndNode()
	return cpu, ok
}

func currentCPUAndNode() (cpu, node int, ok bool) {
	var c, n uint32
	_, _, errno := unix.Syscall(
		sysGetCPU,
		uintptr(unsafe.Pointer(&c)),
		uintptr(unsafe.Pointer(&n)),
		0,
	)
	if errno != 0 {
		return 0, 0, false
	}
	return int(c), int(n), true
}
