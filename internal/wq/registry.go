package wq

import "sync/atomic"

// DeviceGroup collects the WQs local to one NUMA node, round-robined
// independently from the process-wide cursor (spec §3 "Device group").
type DeviceGroup struct {
	wqs    []*WorkQueue
	cursor atomic.Uint64
}

// Next returns the group-local next WQ, or nil if the group is empty.
func (g *DeviceGroup) Next() *WorkQueue {
	if len(g.wqs) == 0 {
		return nil
	}
	i := g.cursor.Add(1) - 1
	return g.wqs[i%uint64(len(g.wqs))]
}

// Len reports how many WQs belong to this group.
func (g *DeviceGroup) Len() int { return len(g.wqs) }

// Registry holds the probed WQs and per-NUMA-node device groups.
//
// Invariant (spec §3): once registered, a WQ's slot is stable for the
// process lifetime except across fork() in the child, where lifecycle
// unmaps its portals and builds a new registry from scratch.
type Registry struct {
	wqs    []*WorkQueue
	groups [MaxNUMANodes]*DeviceGroup
	cursor atomic.Uint64
	numa   bool
}

// NewRegistry builds a registry from the probed WQs, keeping at most MaxWQs
// and capping selection to
// at most one WQ per physical device (spec §4.A) regardless of how the
// caller assembled the list — this backstops the explicit wq-list probe
// path, which (like the original's dsa_init_from_wq_list) trusts the
// admin-supplied list and performs no per-device dedup of its own.
// numaAware controls whether device groups are populated at all (spec
// §4.B invariant: group WQ count equals registry size when NUMA
// awareness is on, zero when off).
func NewRegistry(wqs []*WorkQueue, numaAware bool) *Registry {
	wqs = dedupByDevice(wqs)
	if len(wqs) > MaxWQs {
		wqs = wqs[:MaxWQs]
	}
	r := &Registry{wqs: wqs, numa: numaAware}
	if !numaAware {
		return r
	}
	for _, w := range wqs {
		node := w.NumaNode
		if node < 0 || node >= MaxNUMANodes {
			continue
		}
		g := r.groups[node]
		if g == nil {
			g = &DeviceGroup{}
			r.groups[node] = g
		}
		g.wqs = append(g.wqs, w)
	}
	r.forwardFill()
	return r
}

// dedupByDevice keeps at most the first WQ seen per physical device,
// preserving input order otherwise.
func dedupByDevice(wqs []*WorkQueue) []*WorkQueue {
	seen := make(map[string]bool, len(wqs))
	out := make([]*WorkQueue, 0, len(wqs))
	for _, w := range wqs {
		d := w.Device()
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, w)
	}
	return out
}

// forwardFill mirrors the original's correct_devices_list(): NUMA nodes
// with no local WQ inherit the nearest lower populated group's WQ list,
// so selection by node index never hits a gap (spec §3, §4.B).
func (r *Registry) forwardFill() {
	var last *DeviceGroup
	for i := 0; i < MaxNUMANodes; i++ {
		if r.groups[i] != nil {
			last = r.groups[i]
		} else {
			r.groups[i] = last
		}
	}
}

// Len returns the total number of registered WQs.
func (r *Registry) Len() int { return len(r.wqs) }

// NumaAware reports whether device groups are populated.
func (r *Registry) NumaAware() bool { return r.numa }

// Global returns the next WQ via the process-wide round-robin cursor.
func (r *Registry) Global() *WorkQueue {
	if len(r.wqs) == 0 {
		return nil
	}
	i := r.cursor.Add(1) - 1
	return r.wqs[i%uint64(len(r.wqs))]
}

// Group returns the device group for a NUMA node, or nil if none exists
// (e.g. node out of range, or NUMA awareness disabled).
func (r *Registry) Group(node int) *DeviceGroup {
	if !r.numa || node < 0 || node >= MaxNUMANodes {
		return nil
	}
	return r.groups[node]
}

// UnmapAll unmaps every WQ's portal; used by lifecycle teardown.
func (r *Registry) UnmapAll(unmap func([]byte) error) []error {
	var errs []error
	for _, w := range r.wqs {
		if w.Portal == nil {
			continue
		}
		if err := unmap(w.Portal); err != nil {
			errs = append(errs, err)
		}
		w.Portal = nil
	}
	return errs
}
