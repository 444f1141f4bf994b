package split

import (
	"bytes"
	"testing"

	"github.com/intel/dto/api"
	"github.com/intel/dto/fake"
	"github.com/intel/dto/internal/dispatch"
	"github.com/intel/dto/internal/tuner"
	"github.com/intel/dto/internal/wq"
)

func newSplitter(t *testing.T, engine *fake.Engine, maxTransfer uint32, cpuFraction float64) *Splitter {
	t.Helper()
	w := &wq.WorkQueue{Path: "wq0.0", MaxTransferSize: maxTransfer}
	reg := wq.NewRegistry([]*wq.WorkQueue{w}, false)
	return &Splitter{
		Engine:     engine,
		Selector:   dispatch.NewSelector(reg, api.NumaNone),
		Scratch:    dispatch.NewScratchPool(),
		Tuner:      tuner.New(api.WaitYield, cpuFraction, api.MinDSAMinSize),
		WaitMethod: api.WaitYield,
	}
}

// Scenario 1: copy 128 KiB, f = 0.0, no NUMA — single descriptor covering
// the whole request, post-call dst == src.
func TestScenarioCopySingleDescriptor(t *testing.T) {
	const n = 128 * 1024
	engine := fake.NewEngine()
	s := newSplitter(t, engine, n, 0.0)

	src := make([]byte, n)
	for i := range src {
		src[i] = byte(i)
	}
	dst := make([]byte, n)

	s.Copy(dst, src)

	if !bytes.Equal(dst, src) {
		t.Fatalf("copy did not reproduce source")
	}
	if engine.SubmitCalls() != 1 {
		t.Fatalf("expected exactly one descriptor submission, got %d", engine.SubmitCalls())
	}
}

// Scenario 2: fill 256 KiB with a fractional CPU split and a max-transfer
// below the total size — the call must chunk and every byte must land.
func TestScenarioFillChunked(t *testing.T) {
	const n = 256 * 1024
	engine := fake.NewEngine()
	s := newSplitter(t, engine, 131072, 0.25)

	dst := make([]byte, n)
	s.Fill(dst, 'a')

	for i, b := range dst {
		if b != 'a' {
			t.Fatalf("byte %d not filled: got %x", i, b)
		}
	}
	if engine.SubmitCalls() < 2 {
		t.Fatalf("expected more than one descriptor for a request exceeding max transfer size, got %d", engine.SubmitCalls())
	}
}

// Scenario 3: compare finds a mismatch mid-second-chunk and must stop
// submitting further descriptors once it has.
func TestScenarioCompareMismatchStopsEarly(t *testing.T) {
	const n = 300000
	const mismatchAt = 200003
	engine := fake.NewEngine()
	s := newSplitter(t, engine, 131072, 0.0)

	a := make([]byte, n)
	b := make([]byte, n)
	for i := range a {
		a[i] = byte(i)
		b[i] = byte(i)
	}
	b[mismatchAt] = a[mismatchAt] + 1

	want := int(a[mismatchAt]) - int(b[mismatchAt])
	got, outcome := s.Compare(a, b)

	if got != want {
		t.Fatalf("Compare returned %d, want %d", got, want)
	}
	if outcome != api.PathAccelSuccess {
		t.Fatalf("expected a hardware-detected mismatch to report accel success, got %v", outcome)
	}
	// The mismatch falls in the second 131072-byte chunk; a third chunk
	// must never be submitted.
	if engine.SubmitCalls() > 2 {
		t.Fatalf("expected submission to stop after the mismatching chunk, got %d submits", engine.SubmitCalls())
	}
}

// Scenario 4: memmove over overlapping ranges forces the CPU prefix to
// zero for that chunk so the accelerator sees (and must reproduce) the
// entire overlapping range.
func TestScenarioMoveOverlapForcesZeroCPUPrefix(t *testing.T) {
	buf := make([]byte, 1040)
	for i := range buf[:1024] {
		buf[i] = byte(i)
	}
	src := buf[0:1024]
	dst := buf[16:1040]
	want := append([]byte(nil), src...)

	engine := fake.NewEngine()
	s := newSplitter(t, engine, 65536, 0.5)

	completed, ok := s.moveChunk(&wq.WorkQueue{Path: "wq0.0", MaxTransferSize: 65536}, dst, src, false, 0.5)

	if !ok || completed != len(dst) {
		t.Fatalf("moveChunk did not complete: completed=%d ok=%v", completed, ok)
	}
	if !bytes.Equal(dst, want) {
		t.Fatalf("overlapping move produced wrong result")
	}
	last := engine.LastDescriptor()
	if last.SrcAddr != addrOf(src) || last.DstAddr != addrOf(dst) {
		t.Fatalf("expected the accelerator to see the full overlapping range, not a CPU-shrunk prefix")
	}
}

// Scenario 5: a page fault mid-chunk reports a short bytes-completed
// count, and the splitter retires the remainder on the CPU.
func TestScenarioCopyPageFaultFallsBackToCPU(t *testing.T) {
	const n = 64 * 1024
	const faultAt = 40 * 1024
	engine := fake.NewEngine()
	engine.SetWaitOutcome(api.PageFault, n-faultAt, nil)
	s := newSplitter(t, engine, n, 0.0)

	src := make([]byte, n)
	for i := range src {
		src[i] = byte(i)
	}
	dst := make([]byte, n)

	s.Copy(dst, src)

	if !bytes.Equal(dst, src) {
		t.Fatalf("page-fault fallback did not complete the full range")
	}
}

// Scenario 6: with no usable work queue, every operation must run
// entirely on the CPU and never touch the engine.
func TestScenarioNoUsableWQFallsBackToCPU(t *testing.T) {
	engine := fake.NewEngine()
	reg := wq.NewRegistry(nil, false)
	s := &Splitter{
		Engine:     engine,
		Selector:   dispatch.NewSelector(reg, api.NumaNone),
		Scratch:    dispatch.NewScratchPool(),
		Tuner:      tuner.New(api.WaitYield, 0.0, api.MinDSAMinSize),
		WaitMethod: api.WaitYield,
	}

	n := api.MinDSAMinSize * 2
	src := make([]byte, n)
	for i := range src {
		src[i] = byte(i)
	}
	dst := make([]byte, n)
	s.Copy(dst, src)

	if !bytes.Equal(dst, src) {
		t.Fatalf("CPU-only fallback did not reproduce source")
	}
	if engine.SubmitCalls() != 0 {
		t.Fatalf("expected no engine submissions with no usable WQ, got %d", engine.SubmitCalls())
	}

	a := make([]byte, n)
	bbuf := make([]byte, n)
	copy(a, src)
	copy(bbuf, src)
	bbuf[n-1]++
	if cmp, outcome := s.Compare(a, bbuf); cmp >= 0 {
		t.Fatalf("expected negative compare result for a < b on last byte")
	} else if outcome != api.PathCPU {
		t.Fatalf("expected CPU-only fallback to report PathCPU, got %v", outcome)
	}

	fillDst := make([]byte, n)
	s.Fill(fillDst, 0x61)
	for _, b := range fillDst {
		if b != 0x61 {
			t.Fatalf("CPU-only fill did not set every byte")
		}
	}
}

func TestCompareSmallRequestUsesCPUDirectly(t *testing.T) {
	engine := fake.NewEngine()
	s := newSplitter(t, engine, 131072, 0.0)

	a := []byte("hello")
	b := []byte("hellp")
	got, outcome := s.Compare(a, b)
	if want := CPUCompare(a, b); got != want {
		t.Fatalf("Compare(%q, %q) = %d, want %d", a, b, got, want)
	}
	if outcome != api.PathCPU {
		t.Fatalf("expected small compare to report PathCPU, got %v", outcome)
	}
	if engine.SubmitCalls() != 0 {
		t.Fatalf("expected small compare to stay on CPU, got %d submits", engine.SubmitCalls())
	}
}

func TestFillZeroLengthIsNoop(t *testing.T) {
	engine := fake.NewEngine()
	s := newSplitter(t, engine, 131072, 0.0)
	s.Fill(nil, 'x')
	if engine.SubmitCalls() != 0 {
		t.Fatalf("expected no submissions for a zero-length fill")
	}
}
