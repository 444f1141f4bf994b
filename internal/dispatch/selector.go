package dispatch

import (
	"unsafe"

	"github.com/intel/dto/api"
	"github.com/intel/dto/internal/wq"
)

// Selector picks the work queue a call should submit to, following
// spec §4.D / the original's get_wq(): NUMA-local when configured and
// available, otherwise the registry's global round robin.
type Selector struct {
	reg  *wq.Registry
	mode api.NumaMode
}

// NewSelector returns a Selector over reg using the given NUMA mode.
func NewSelector(reg *wq.Registry, mode api.NumaMode) *Selector {
	return &Selector{reg: reg, mode: mode}
}

// ForBuffer selects a WQ local to buf's NUMA node when the selector is in
// buffer-centric mode, local to the calling thread's node in cpu-centric
// mode, and otherwise falls back to the registry's global cursor.
func (s *Selector) ForBuffer(buf unsafe.Pointer) *wq.WorkQueue {
	if s.reg.NumaAware() {
		var node int
		var ok bool
		switch s.mode {
		case api.NumaBufferCentric:
			node, ok = bufferNUMANode(buf)
		case api.NumaCPUCentric:
			node, ok = currentCPUNUMANode()
		}
		if ok {
			if g := s.reg.Group(node); g != nil && g.Len() > 0 {
				if w := g.Next(); w != nil {
					return w
				}
			}
		}
	}
	return s.reg.Global()
}
