package dispatch

import "github.com/intel/dto/pool"

// Scratch bundles one descriptor and its aligned completion record,
// substituting for the original's __thread thr_desc/thr_comp pair. A
// goroutine has no fixed OS-thread identity, so true thread-local storage
// isn't available in Go; instead each call borrows a Scratch from the
// pool and returns it when done, guaranteeing exclusive use for the
// call's duration (spec §9 "thread-local state").
type Scratch struct {
	Desc Descriptor
	Comp CompletionRecord
}

// ScratchPool hands out Scratch values for the duration of one call.
type ScratchPool struct {
	pool *pool.SyncPool[*Scratch]
}

// NewScratchPool builds a pool of Scratch values.
func NewScratchPool() *ScratchPool {
	return &ScratchPool{pool: pool.NewSyncPool(func() *Scratch { return &Scratch{} })}
}

// Get borrows a zeroed Scratch.
func (p *ScratchPool) Get() *Scratch {
	s := p.pool.Get()
	s.Desc = Descriptor{}
	s.Comp = CompletionRecord{}
	return s
}

// Put returns a Scratch to the pool.
func (p *ScratchPool) Put(s *Scratch) {
	p.pool.Put(s)
}
