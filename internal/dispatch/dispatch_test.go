package dispatch

import (
	"testing"

	"github.com/intel/dto/api"
	"github.com/intel/dto/internal/wq"
)

func TestSelectorFallsBackWithoutNUMA(t *testing.T) {
	wqs := []*wq.WorkQueue{{Path: "a"}, {Path: "b"}}
	reg := wq.NewRegistry(wqs, false)
	sel := NewSelector(reg, api.NumaBufferCentric)

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		seen[sel.ForBuffer(nil).Path] = true
	}
	if len(seen) != 2 {
		t.Fatalf("expected selector to round-robin across both WQs, got %v", seen)
	}
}

func TestSelectorNumaNoneUsesGlobal(t *testing.T) {
	wqs := []*wq.WorkQueue{{Path: "a", NumaNode: 0}, {Path: "b", NumaNode: 1}}
	reg := wq.NewRegistry(wqs, true)
	sel := NewSelector(reg, api.NumaNone)

	w := sel.ForBuffer(nil)
	if w == nil {
		t.Fatalf("expected a WQ from the global cursor")
	}
}

func TestScratchPoolZeroedOnGet(t *testing.T) {
	p := NewScratchPool()
	s := p.Get()
	s.Desc.XferSize = 4096
	s.Comp.Status = CompSuccess
	p.Put(s)

	s2 := p.Get()
	if s2.Desc.XferSize != 0 || s2.Comp.Status != 0 {
		t.Fatalf("expected zeroed scratch from pool, got %+v %+v", s2.Desc, s2.Comp)
	}
}

func TestDescriptorFlags(t *testing.T) {
	d := Descriptor{Flags: FlagCompletionRecordAddrValid | FlagRequestCompletionRecord}
	if d.Flags&FlagCacheControl != 0 {
		t.Fatalf("cache control flag should not be set")
	}
	d.Flags |= FlagCacheControl
	if d.Flags&FlagCacheControl == 0 {
		t.Fatalf("expected cache control flag set")
	}
}
