//go:build linux
// +build linux

package affinity

/*
#cgo LDFLAGS: -lnuma

#define _GNU_SOURCE
#include <sched.h>
#include <pthread.h>
#include <numa.h>
#include <errno.h>
#include <unistd.h>

static int go_setaffinity(int cpu) {
	cpu_set_t set;
	CPU_ZERO(&set);
	CPU_SET(cpu, &set);
	return pthread_setaffinity_np(pthread_self(), sizeof(set), &set);
}

static int go_unsetaffinity(void) {
	cpu_set_t set;
	CPU_ZERO(&set);
	int n = sysconf(_SC_NPROCESSORS_ONLN);
	for (int i = 0; i < n; i++) {
		CPU_SET(i, &set);
	}
	return pthread_setaffinity_np(pthread_self(), sizeof(set), &set);
}
*/
import "C"

import (
	"fmt"
	"runtime"

	"github.com/intel/dto/api"
)

func pinCurrentThread(numaNode, cpuID int) error {
	runtime.LockOSThread()
	if cpuID >= 0 {
		if ret := C.go_setaffinity(C.int(cpuID)); ret != 0 {
			return fmt.Errorf("affinity: pthread_setaffinity_np failed, code %d", ret)
		}
	}
	if numaNode >= 0 {
		if C.numa_available() < 0 {
			return api.ErrNotSupported
		}
		C.numa_run_on_node(C.int(numaNode))
	}
	return nil
}

func unpinCurrentThread() error {
	defer runtime.UnlockOSThread()
	if ret := C.go_unsetaffinity(); ret != 0 {
		return fmt.Errorf("affinity: pthread_setaffinity_np reset failed, code %d", ret)
	}
	return nil
}
