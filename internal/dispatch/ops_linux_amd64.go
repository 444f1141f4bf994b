//go:build linux && amd64
// +build linux,amd64

// Real ENQCMD submission and UMWAIT-based completion waiting.
// Grounded on the original's enqcmd/umonitor/umwait inline asm
// (_examples/original_source/dto.c) and the teacher's cgo convention in
// affinity/affinity_linux.go (a small C helper wrapped by a Go function).
package dispatch

/*
#include <stdint.h>
#include <linux/idxd.h>
#include <sched.h>

static inline unsigned char go_enqcmd(struct dsa_hw_desc *desc, void *reg) {
	unsigned char retry;
	asm volatile(".byte 0xf2, 0x0f, 0x38, 0xf8, 0x02\t\n"
			"setz %0\t\n"
			: "=r"(retry) : "a" (reg), "d" (desc));
	return retry;
}

static inline void go_sfence(void) {
	asm volatile("sfence" ::: "memory");
}

static inline void go_pause(void) {
	asm volatile("pause");
}

static inline void go_umonitor(const volatile void *addr) {
	asm volatile(".byte 0xf3, 0x48, 0x0f, 0xae, 0xf0" : : "a"(addr));
}

static inline unsigned char go_umwait(uint64_t timeout, unsigned int state) {
	uint8_t r;
	uint32_t timeout_low = (uint32_t)timeout;
	uint32_t timeout_high = (uint32_t)(timeout >> 32);

	asm volatile(".byte 0xf2, 0x48, 0x0f, 0xae, 0xf1\t\n"
		"setc %0\t\n"
		: "=r"(r)
		: "c"(state), "a"(timeout_low), "d"(timeout_high));
	return r;
}

static inline uint64_t go_rdtsc(void) {
	return __builtin_ia32_rdtsc();
}

static inline void go_fill_desc(struct dsa_hw_desc *d, unsigned char opcode,
	uint32_t flags, uint64_t src, uint64_t src2, uint64_t dst,
	uint32_t xfer, uint64_t pattern, uint64_t comp_addr) {
	__builtin_memset(d, 0, sizeof(*d));
	d->opcode = opcode;
	d->flags = flags;
	d->src_addr = src;
	d->dst_addr = dst;
	d->xfer_size = xfer;
	d->completion_addr = comp_addr;
	if (opcode == DSA_OPCODE_MEMFILL)
		d->pattern = pattern;
	if (opcode == DSA_OPCODE_COMPARE)
		d->src2_addr = src2;
}

static inline void go_sched_yield(void) {
	sched_yield();
}
*/
import "C"

import (
	"unsafe"

	"github.com/intel/dto/api"
)

const (
	umwaitDelayCycles = 100000
	umwaitStateC01    = 1
)

// toCDesc marshals our Descriptor into the kernel's struct dsa_hw_desc.
func toCDesc(d *Descriptor, comp *CompletionRecord) C.struct_dsa_hw_desc {
	var c C.struct_dsa_hw_desc
	C.go_fill_desc(&c, C.uchar(d.Opcode), C.uint32_t(d.Flags),
		C.uint64_t(d.SrcAddr), C.uint64_t(d.Src2Addr), C.uint64_t(d.DstAddr),
		C.uint32_t(d.XferSize), d.Pattern, C.uint64_t(uintptr(unsafe.Pointer(comp))))
	return c
}

func enqcmdRetry(portal []byte, cdesc *C.struct_dsa_hw_desc) bool {
	reg := unsafe.Pointer(&portal[0])
	return C.go_enqcmd(cdesc, reg) != 0
}

func cpuPause()  { C.go_pause() }
func cpuYield()  { C.go_sched_yield() }
func sfence()    { C.go_sfence() }
func rdtsc() uint64 { return uint64(C.go_rdtsc()) }

func umonitor(addr unsafe.Pointer) { C.go_umonitor(addr) }

func umwaitUntil(deadline uint64) bool {
	return C.go_umwait(C.uint64_t(deadline), umwaitStateC01) != 0
}

func waitBounds(method api.WaitMethod) (min, max float64) {
	return api.WaitBounds(method)
}
