// Package wq implements work-queue discovery and the fixed-capacity
// registry of mapped accelerator work queues (spec §4.A, §4.B).
//
// Grounded on the teacher's internal/transport/transport_linux_uring.go
// (raw mmap'd hardware ring discovery) and pool/numapool.go (NUMA-keyed
// fixed-size tables).
package wq

import "strings"

const (
	// MaxWQs is the hard cap on work queues DTO will use, matching the
	// original's MAX_WQS — avoids dynamic allocation during enqueue,
	// which could recurse into an interposed allocator.
	MaxWQs = 32
	// MaxNUMANodes bounds the device-group table.
	MaxNUMANodes = 32
	// PortalSize is the single page mapped for each WQ's MMIO portal.
	PortalSize = 0x1000

	// GenCapCacheControl is the DSA gencap bit indicating the device can
	// write directly into the destination's cache hierarchy.
	GenCapCacheControl = 0x4
)

// WorkQueue is a single mapped shared work queue.
type WorkQueue struct {
	Path            string
	GenCap          uint64
	Size            int
	MaxTransferSize uint32
	NumaNode        int
	Portal          []byte // mmap'd MMIO submission page; nil when unmapped
}

// CacheControlCapable reports whether the device may write through cache.
func (w *WorkQueue) CacheControlCapable() bool {
	return w.GenCap&GenCapCacheControl != 0
}

// Device returns the containing dsa<N> device name for a WQ named
// "wq<N>.<M>", the unit the original's used_devids guard dedups on.
func (w *WorkQueue) Device() string {
	return deviceName(w.Path)
}

// deviceName derives the containing dsa<N> device name from a wq name of
// the form "wq<N>.<M>", as the original's accfg path walk does.
func deviceName(wqName string) string {
	i := strings.Index(wqName, ".")
	if i < 0 {
		return wqName
	}
	n := strings.TrimPrefix(wqName[:i], "wq")
	return "dsa" + n
}
