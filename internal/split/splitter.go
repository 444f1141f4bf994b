// Package split implements the CPU/accelerator partitioning at the heart
// of the library: computing how much of a request goes to the CPU versus
// the accelerator, chunking across the work queue's maximum transfer
// size, and resolving whatever the accelerator didn't finish (spec §4.F).
//
// Grounded on dto_memset/dto_memcpymove/dto_memcmp in
// _examples/original_source/dto.c.
package split

import (
	"unsafe"

	"github.com/intel/dto/api"
	"github.com/intel/dto/internal/dispatch"
	"github.com/intel/dto/internal/tuner"
	"github.com/intel/dto/internal/wq"
)

// Splitter drives one memory primitive's submission/CPU-overlap/wait
// sequence. It holds no per-call state; everything is parameterized on
// the call's own buffers, so a single Splitter is shared process-wide.
type Splitter struct {
	Engine     dispatch.Engine
	Selector   *dispatch.Selector
	Scratch    *dispatch.ScratchPool
	Tuner      *tuner.Tuner
	WaitMethod api.WaitMethod

	// UseStdCalls mirrors DTO_USESTDC_CALLS: when true, every operation
	// always takes the CPU-only path regardless of size.
	UseStdCalls bool
}

func (s *Splitter) useOrigFunc(n int) bool {
	return s.UseStdCalls || n < s.Tuner.DSAMinSize()
}

func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

func fillPattern(c byte) uint64 {
	var p uint64
	for i := 0; i < 8; i++ {
		p |= uint64(c) << (8 * i)
	}
	return p
}

// Fill implements memset semantics over dst. The returned PathOutcome
// reports which path serviced the call, for the caller's stat histogram.
func (s *Splitter) Fill(dst []byte, c byte) api.PathOutcome {
	n := len(dst)
	if n == 0 {
		return api.PathCPU
	}
	if s.useOrigFunc(n) {
		CPUFill(dst, c)
		return api.PathCPU
	}
	completed, offloaded := s.dsaFill(dst, c)
	if completed < n {
		CPUFill(dst[completed:], c)
		if !offloaded {
			return api.PathCPU
		}
		return api.PathAccelFailure
	}
	return api.PathAccelSuccess
}

func (s *Splitter) dsaFill(dst []byte, c byte) (int, bool) {
	w := s.Selector.ForBuffer(unsafe.Pointer(&dst[0]))
	if w == nil || w.MaxTransferSize == 0 {
		return 0, false
	}

	n := len(dst)
	bytesCompleted := 0
	fraction := s.Tuner.CPUSizeFraction()
	threshold := chunkThreshold(w, fraction)

	for {
		remaining := n - bytesCompleted
		if remaining <= 0 {
			break
		}
		length := remaining
		dsaProjected := remaining - int(float64(remaining)*fraction)
		if dsaProjected > int(w.MaxTransferSize) {
			length = threshold
			if length > remaining {
				length = remaining
			}
		}

		completed, ok := s.fillChunk(w, dst[bytesCompleted:bytesCompleted+length], c, fraction)
		bytesCompleted += completed
		if !ok {
			return bytesCompleted, true
		}
		if n-bytesCompleted < s.Tuner.DSAMinSize() {
			break
		}
	}
	return bytesCompleted, true
}

// chunkThreshold is M/(1-f), the chunk length whose accelerator portion
// exactly fills one descriptor's max transfer size.
func chunkThreshold(w *wq.WorkQueue, fraction float64) int {
	if fraction >= 1 {
		return int(w.MaxTransferSize)
	}
	return int(float64(w.MaxTransferSize) / (1 - fraction))
}

func (s *Splitter) fillChunk(w *wq.WorkQueue, dst []byte, c byte, fraction float64) (completed int, ok bool) {
	length := len(dst)
	cpuSize := int(float64(length) * fraction)
	dsaSize := length - cpuSize

	scratch := s.Scratch.Get()
	defer s.Scratch.Put(scratch)

	scratch.Desc.Opcode = dispatch.OpcodeMemFill
	scratch.Desc.Flags = dispatch.FlagCompletionRecordAddrValid | dispatch.FlagRequestCompletionRecord
	if w.CacheControlCapable() {
		scratch.Desc.Flags |= dispatch.FlagCacheControl
	}
	scratch.Desc.DstAddr = addrOf(dst[cpuSize:])
	scratch.Desc.XferSize = uint32(dsaSize)
	scratch.Desc.Pattern = fillPattern(c)

	outcome, err := s.Engine.Submit(w, &scratch.Desc, &scratch.Comp)
	if err != nil || outcome != api.Success {
		return 0, false
	}
	if cpuSize > 0 {
		CPUFill(dst[:cpuSize], c)
	}
	res := s.Engine.Wait(&scratch.Comp, scratch.Desc.XferSize, s.WaitMethod)
	s.Tuner.Observe(res.Waits)
	if res.Outcome != api.Success {
		return cpuSize + res.BytesCompleted, false
	}
	return length, true
}

// Copy implements memcpy semantics: src and dst never overlap.
func (s *Splitter) Copy(dst, src []byte) api.PathOutcome {
	return s.copyOrMove(dst, src, true)
}

// Move implements memmove semantics: src and dst may overlap.
func (s *Splitter) Move(dst, src []byte) api.PathOutcome {
	return s.copyOrMove(dst, src, false)
}

func (s *Splitter) copyOrMove(dst, src []byte, isCopy bool) api.PathOutcome {
	n := len(dst)
	if n == 0 {
		return api.PathCPU
	}
	if s.useOrigFunc(n) {
		CPUCopyOrMove(dst, src, isCopy)
		return api.PathCPU
	}
	completed, offloaded := s.dsaCopyMove(dst, src, isCopy)
	if completed < n {
		CPUCopyOrMove(dst[completed:], src[completed:], isCopy)
		if !offloaded {
			return api.PathCPU
		}
		return api.PathAccelFailure
	}
	return api.PathAccelSuccess
}

func (s *Splitter) dsaCopyMove(dst, src []byte, isCopy bool) (int, bool) {
	w := s.Selector.ForBuffer(unsafe.Pointer(&dst[0]))
	if w == nil || w.MaxTransferSize == 0 {
		return 0, false
	}

	n := len(dst)
	bytesCompleted := 0
	fraction := s.Tuner.CPUSizeFraction()
	threshold := chunkThreshold(w, fraction)

	for {
		remaining := n - bytesCompleted
		if remaining <= 0 {
			break
		}
		length := remaining
		dsaProjected := remaining - int(float64(remaining)*fraction)
		if dsaProjected > int(w.MaxTransferSize) {
			length = threshold
			if length > remaining {
				length = remaining
			}
		}

		completed, ok := s.moveChunk(w, dst[bytesCompleted:bytesCompleted+length], src[bytesCompleted:bytesCompleted+length], isCopy, fraction)
		bytesCompleted += completed
		if !ok {
			return bytesCompleted, true
		}
		if n-bytesCompleted < s.Tuner.DSAMinSize() {
			break
		}
	}
	return bytesCompleted, true
}

func (s *Splitter) moveChunk(w *wq.WorkQueue, dst, src []byte, isCopy bool, fraction float64) (completed int, ok bool) {
	var cpuSize int
	if !isCopy && overlaps(dst, src) {
		cpuSize = 0
	} else {
		cpuSize = int(float64(len(dst)) * fraction)
	}
	length := len(dst)
	dsaSize := length - cpuSize

	scratch := s.Scratch.Get()
	defer s.Scratch.Put(scratch)

	scratch.Desc.Opcode = dispatch.OpcodeMemMove
	scratch.Desc.Flags = dispatch.FlagCompletionRecordAddrValid | dispatch.FlagRequestCompletionRecord
	if w.CacheControlCapable() {
		scratch.Desc.Flags |= dispatch.FlagCacheControl
	}
	scratch.Desc.SrcAddr = addrOf(src[cpuSize:])
	scratch.Desc.DstAddr = addrOf(dst[cpuSize:])
	scratch.Desc.XferSize = uint32(dsaSize)

	outcome, err := s.Engine.Submit(w, &scratch.Desc, &scratch.Comp)
	if err != nil || outcome != api.Success {
		return 0, false
	}
	if cpuSize > 0 {
		CPUCopyOrMove(dst[:cpuSize], src[:cpuSize], isCopy)
	}
	res := s.Engine.Wait(&scratch.Comp, scratch.Desc.XferSize, s.WaitMethod)
	s.Tuner.Observe(res.Waits)
	if res.Outcome != api.Success {
		return cpuSize + res.BytesCompleted, false
	}
	return length, true
}

// Compare implements memcmp semantics: returns 0 when a == b, otherwise
// the literal difference between the first differing byte of a and b
// (spec §4.F: "computed from the two bytes at base+bytes_completed in
// each operand"), not merely its sign. The returned PathOutcome reports
// which path serviced the call, for the caller's stat histogram.
func (s *Splitter) Compare(a, b []byte) (int, api.PathOutcome) {
	n := len(a)
	if n == 0 {
		return 0, api.PathCPU
	}
	if s.useOrigFunc(n) {
		return CPUCompare(a, b), api.PathCPU
	}
	cmp, completed, offloaded := s.dsaCompare(a, b)
	if completed < n {
		if !offloaded {
			return CPUCompare(a[completed:], b[completed:]), api.PathCPU
		}
		return CPUCompare(a[completed:], b[completed:]), api.PathAccelFailure
	}
	return cmp, api.PathAccelSuccess
}

func (s *Splitter) dsaCompare(a, b []byte) (cmpResult int, completed int, offloaded bool) {
	w := s.Selector.ForBuffer(unsafe.Pointer(&b[0]))
	if w == nil || w.MaxTransferSize == 0 {
		return 0, 0, false
	}

	n := len(a)
	bytesCompleted := 0

	for {
		remaining := n - bytesCompleted
		if remaining <= 0 {
			break
		}
		length := remaining
		if length > int(w.MaxTransferSize) {
			length = int(w.MaxTransferSize)
		}

		scratch := s.Scratch.Get()
		scratch.Desc.Opcode = dispatch.OpcodeCompare
		scratch.Desc.Flags = dispatch.FlagCompletionRecordAddrValid | dispatch.FlagRequestCompletionRecord
		scratch.Desc.SrcAddr = addrOf(a[bytesCompleted : bytesCompleted+length])
		scratch.Desc.Src2Addr = addrOf(b[bytesCompleted : bytesCompleted+length])
		scratch.Desc.XferSize = uint32(length)

		res := s.Engine.Execute(w, &scratch.Desc, &scratch.Comp, s.WaitMethod)
		s.Tuner.Observe(res.Waits)
		mismatch := scratch.Comp.Result != 0
		s.Scratch.Put(scratch)

		if res.Err != nil || res.Outcome == api.FailOther {
			return 0, bytesCompleted, true
		}
		if mismatch {
			cmp := CPUCompare(a[bytesCompleted:bytesCompleted+length], b[bytesCompleted:bytesCompleted+length])
			return cmp, n, true
		}
		if res.Outcome == api.PageFault {
			return 0, bytesCompleted + res.BytesCompleted, true
		}

		bytesCompleted += length
		if n-bytesCompleted < s.Tuner.DSAMinSize() {
			break
		}
	}
	return 0, bytesCompleted, true
}
