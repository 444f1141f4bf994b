// Package facade exposes the four interposed entry points
// (Fill/Copy/Move/Compare) that every other caller in this module — and
// cmd/dtoshim's libc shim — goes through. Each function implements the
// four-step contract of spec.md §4.I: fall back to a minimal CPU-only
// path before the lifecycle handshake completes, choose accelerator vs.
// CPU once it has, let the splitter resolve any residual tail on the
// CPU, and return the caller-visible result the standard routine
// defines.
//
// Grounded on the teacher's facade.HioloadWS as the single wiring point
// callers reach for, adapted here to call through internal/lifecycle
// instead of constructing a transport/poller/session stack directly.
package facade

import (
	"time"

	"github.com/intel/dto/api"
	"github.com/intel/dto/control"
	"github.com/intel/dto/internal/lifecycle"
	"github.com/intel/dto/internal/split"
)

func init() {
	lifecycle.Global().Start()
}

// observe records a completed call against both the stat histogram and
// the debug-probe event ring.
func observe(l *lifecycle.Lifecycle, op api.MemOp, outcome api.PathOutcome, n int, start time.Time) {
	now := time.Now()
	lat := now.Sub(start)
	l.Stats.Observe(op, outcome, n, lat)
	l.Events.Record(control.Event{Op: op, Outcome: outcome, Bytes: n, Latency: lat, At: now})
}

// Fill implements memset semantics: every byte of dst is set to c, and
// dst is returned.
func Fill(dst []byte, c byte) []byte {
	n := len(dst)
	if n == 0 {
		return dst
	}
	l := lifecycle.Global()
	if !l.Ready() {
		split.CPUFill(dst, c)
		return dst
	}
	start := time.Now()
	outcome := api.PathCPU
	if l.UseCPUOnly() {
		split.CPUFill(dst, c)
	} else {
		outcome = l.Splitter().Fill(dst, c)
	}
	observe(l, api.OpFill, outcome, n, start)
	return dst
}

// Copy implements memcpy semantics: src is copied into dst, which must
// not overlap src, and dst is returned.
func Copy(dst, src []byte) []byte {
	return copyOrMove(dst, src, true)
}

// Move implements memmove semantics: src is copied into dst, and the
// result is correct even when the two ranges overlap. dst is returned.
func Move(dst, src []byte) []byte {
	return copyOrMove(dst, src, false)
}

func copyOrMove(dst, src []byte, isCopy bool) []byte {
	n := len(src)
	if n == 0 {
		return dst
	}
	l := lifecycle.Global()
	if !l.Ready() {
		cpuFallbackCopyOrMove(dst, src, isCopy)
		return dst
	}
	op := api.OpCopy
	if !isCopy {
		op = api.OpMove
	}
	start := time.Now()
	outcome := api.PathCPU
	if l.UseCPUOnly() {
		split.CPUCopyOrMove(dst, src, isCopy)
	} else {
		s := l.Splitter()
		if isCopy {
			outcome = s.Copy(dst, src)
		} else {
			outcome = s.Move(dst, src)
		}
	}
	observe(l, op, outcome, n, start)
	return dst
}

// cpuFallbackCopyOrMove is the minimal internal CPU-only path used
// before the lifecycle handshake completes. Go's copy() already has
// memmove semantics regardless of overlap direction, so unlike the
// original's address-order-based fallback, one call covers both cases.
func cpuFallbackCopyOrMove(dst, src []byte, isCopy bool) {
	split.CPUCopyOrMove(dst, src, isCopy)
}

// Compare implements memcmp semantics: 0 when a == b, otherwise the
// literal difference between the first differing byte of a and b.
func Compare(a, b []byte) int {
	n := len(a)
	if n == 0 {
		return 0
	}
	l := lifecycle.Global()
	if !l.Ready() {
		return split.CPUCompare(a, b)
	}
	start := time.Now()
	var result int
	outcome := api.PathCPU
	if l.UseCPUOnly() {
		result = split.CPUCompare(a, b)
	} else {
		result, outcome = l.Splitter().Compare(a, b)
	}
	observe(l, api.OpCompare, outcome, n, start)
	return result
}
