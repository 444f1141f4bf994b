// Package tuner implements the online auto-tuning heuristic that keeps
// the CPU and the accelerator finishing their share of a split transfer
// at roughly the same time (spec §4.G).
//
// Grounded on dsa_wait_and_adjust in _examples/original_source/dto.c: a
// sampling window of 16 descriptors taken once every 256-descriptor
// cycle, adjusting cpu_size_fraction then dsa_min_size based on the
// average wait count observed in that window.
package tuner

import (
	"math"
	"sync/atomic"

	"github.com/intel/dto/api"
)

const (
	// cycleMask selects the last 16 descriptors of every 256-descriptor
	// cycle as the sampling window, matching DESCS_PER_RUN = 0xF0.
	cycleMask    = 0xF0
	sampleWindow = 16 // NUM_DESCS

	csfStep = 0.01
	dmsStep = 1024
)

// Tuner adjusts cpu_size_fraction and dsa_min_size based on observed wait
// counts. It is safe for concurrent use; adjustments apply process-wide
// exactly as the original's file-scope statics did.
type Tuner struct {
	method api.WaitMethod
	minW, maxW float64

	numDescs       atomic.Uint64
	sampleDescs    atomic.Uint64
	sampleWaits    atomic.Uint64

	cpuFractionBits atomic.Uint64 // math.Float64bits(cpuSizeFraction)
	dsaMinSize      atomic.Int64
}

// New builds a Tuner seeded with the starting knobs loaded from config.
func New(method api.WaitMethod, initialCPUFraction float64, initialDSAMinSize int) *Tuner {
	t := &Tuner{method: method}
	t.minW, t.maxW = api.WaitBounds(method)
	t.cpuFractionBits.Store(math.Float64bits(initialCPUFraction))
	t.dsaMinSize.Store(int64(initialDSAMinSize))
	return t
}

// CPUSizeFraction returns the current fraction of a transfer routed to
// the CPU, in [0, api.MaxCPUFraction].
func (t *Tuner) CPUSizeFraction() float64 {
	return math.Float64frombits(t.cpuFractionBits.Load())
}

// DSAMinSize returns the current floor below which a remainder is
// completed entirely on the CPU rather than submitted again.
func (t *Tuner) DSAMinSize() int {
	return int(t.dsaMinSize.Load())
}

// Observe records the wait count from one descriptor's completion and,
// once a sampling window closes, adjusts the knobs (spec §4.G invariants:
// cpu_size_fraction stays within [0, 0.9], dsa_min_size within
// [6144, 65536]).
func (t *Tuner) Observe(waits int) {
	n := t.numDescs.Add(1)
	if n&cycleMask != cycleMask {
		return
	}

	descs := t.sampleDescs.Add(1)
	t.sampleWaits.Add(uint64(waits))

	if descs < sampleWindow {
		return
	}
	if !t.sampleDescs.CompareAndSwap(descs, 0) {
		return // another goroutine already reset this window
	}
	total := t.sampleWaits.Swap(0)
	avg := float64(total) / float64(descs)

	switch {
	case avg > t.maxW:
		t.increaseDSALoadReduction()
	case avg < t.minW:
		t.increaseDSALoad()
	}
}

// increaseDSALoadReduction shifts more work to the CPU: raise
// cpu_size_fraction first, then widen dsa_min_size once the fraction cap
// is reached.
func (t *Tuner) increaseDSALoadReduction() {
	f := t.CPUSizeFraction()
	if f < api.MaxCPUFraction {
		t.setCPUFraction(f + csfStep)
		return
	}
	if m := t.DSAMinSize(); m < api.MaxDSAMinSize {
		t.dsaMinSize.Store(int64(m + dmsStep))
	}
}

// increaseDSALoad shifts more work to the accelerator: lower
// cpu_size_fraction first, then narrow dsa_min_size once the fraction
// floor is reached.
func (t *Tuner) increaseDSALoad() {
	f := t.CPUSizeFraction()
	if f >= csfStep {
		t.setCPUFraction(f - csfStep)
		return
	}
	if m := t.DSAMinSize(); m > api.MinDSAMinSize {
		t.dsaMinSize.Store(int64(m - dmsStep))
	}
}

func (t *Tuner) setCPUFraction(f float64) {
	if f < 0 {
		f = 0
	}
	if f > api.MaxCPUFraction {
		f = api.MaxCPUFraction
	}
	t.cpuFractionBits.Store(math.Float64bits(f))
}
