package tuner

import (
	"testing"

	"github.com/intel/dto/api"
)

// feedWindow drives enough Observe calls to close exactly one sampling window,
// since only descriptor counts landing in the last 16 of each 256-cycle
// actually contribute (cycleMask = 0xF0).
func feedWindow(t *Tuner, waitsPerDesc int) {
	for i := 0; i < 256; i++ {
		t.Observe(waitsPerDesc)
	}
}

func TestTunerIncreasesCPUFractionOnHighWaits(t *testing.T) {
	tu := New(api.WaitYield, 0.0, api.DefaultMinBytes)
	feedWindow(tu, 5) // yield bounds are [1.0, 2.0]; 5 waits/desc is high

	if got := tu.CPUSizeFraction(); got <= 0 {
		t.Fatalf("expected cpu_size_fraction to increase above 0, got %f", got)
	}
}

func TestTunerDecreasesCPUFractionOnLowWaits(t *testing.T) {
	tu := New(api.WaitYield, 0.5, api.DefaultMinBytes)
	feedWindow(tu, 0) // below min_avg_waits of 1.0

	if got := tu.CPUSizeFraction(); got >= 0.5 {
		t.Fatalf("expected cpu_size_fraction to decrease below 0.5, got %f", got)
	}
}

func TestTunerCPUFractionClampedAtMax(t *testing.T) {
	tu := New(api.WaitYield, api.MaxCPUFraction, api.DefaultMinBytes)
	for i := 0; i < 10; i++ {
		feedWindow(tu, 20)
	}
	if got := tu.CPUSizeFraction(); got > api.MaxCPUFraction {
		t.Fatalf("cpu_size_fraction exceeded cap: %f", got)
	}
}

func TestTunerWidensDSAMinSizeOnceFractionCapped(t *testing.T) {
	tu := New(api.WaitYield, api.MaxCPUFraction, api.DefaultMinBytes)
	before := tu.DSAMinSize()
	for i := 0; i < 5; i++ {
		feedWindow(tu, 20)
	}
	if tu.DSAMinSize() <= before {
		t.Fatalf("expected dsa_min_size to widen once cpu fraction capped, before=%d after=%d", before, tu.DSAMinSize())
	}
}

func TestTunerNoAdjustWithinBounds(t *testing.T) {
	tu := New(api.WaitYield, 0.3, api.DefaultMinBytes)
	feedWindow(tu, 1) // within [1.0, 2.0]

	if got := tu.CPUSizeFraction(); got != 0.3 {
		t.Fatalf("expected no adjustment within bounds, got %f", got)
	}
}
