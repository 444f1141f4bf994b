// Package fake provides controllable test doubles for the dto library's
// hardware-facing interfaces, used in place of real accelerator access.
//
// Adapted from the teacher's fake/transport.go, which offered the same
// shape (a real struct with Set*Error/Add*Data knobs) for api.Transport.
package fake

import (
	"bytes"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/intel/dto/api"
	"github.com/intel/dto/internal/dispatch"
	"github.com/intel/dto/internal/wq"
)

// Engine is a configurable dispatch.Engine double. By default every
// Submit/Execute call succeeds, actually performing the descriptor's
// operation against the real memory its addresses point into, so tests
// can assert on buffer contents the same way they would against real
// hardware.
type Engine struct {
	mu sync.Mutex

	submitErr   error
	submitOut   api.Outcome
	waitOut     api.Outcome
	waitErr     error
	waitPartial int // when >0, only xferSize-waitPartial bytes are actually applied
	waits       int

	submitCalls atomic.Int64
	waitCalls   atomic.Int64
	lastDesc    dispatch.Descriptor
}

// NewEngine returns an Engine configured to always succeed.
func NewEngine() *Engine {
	return &Engine{submitOut: api.Success, waitOut: api.Success}
}

// SetSubmitError makes Submit/Execute report this error and outcome
// without applying any memory effect.
func (e *Engine) SetSubmitError(outcome api.Outcome, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitOut, e.submitErr = outcome, err
}

// SetWaitOutcome makes Wait/Execute report this outcome once submission
// has succeeded; partialBytes, when nonzero, short-completes the
// transfer by that many bytes to exercise the page-fault tail-retry
// path, and only the completed prefix is actually written.
func (e *Engine) SetWaitOutcome(outcome api.Outcome, partialBytes int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.waitOut, e.waitPartial, e.waitErr = outcome, partialBytes, err
}

// SetWaits fixes the reported wait-iteration count, used by tuner tests.
func (e *Engine) SetWaits(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.waits = n
}

// SubmitCalls reports how many times Submit/Execute was invoked.
func (e *Engine) SubmitCalls() int64 { return e.submitCalls.Load() }

// WaitCalls reports how many times Wait/Execute was invoked.
func (e *Engine) WaitCalls() int64 { return e.waitCalls.Load() }

// LastDescriptor returns a copy of the most recently submitted descriptor.
func (e *Engine) LastDescriptor() dispatch.Descriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastDesc
}

func (e *Engine) Submit(q *wq.WorkQueue, d *dispatch.Descriptor, comp *dispatch.CompletionRecord) (api.Outcome, error) {
	e.submitCalls.Add(1)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastDesc = *d
	if e.submitErr != nil {
		return e.submitOut, e.submitErr
	}
	comp.Status = dispatch.CompNone
	return api.Success, nil
}

func (e *Engine) Wait(comp *dispatch.CompletionRecord, xferSize uint32, method api.WaitMethod) dispatch.Result {
	e.waitCalls.Add(1)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completeLocked(&e.lastDesc, comp, xferSize)
}

func (e *Engine) Execute(q *wq.WorkQueue, d *dispatch.Descriptor, comp *dispatch.CompletionRecord, method api.WaitMethod) dispatch.Result {
	e.submitCalls.Add(1)
	e.waitCalls.Add(1)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastDesc = *d
	if e.submitErr != nil {
		return dispatch.Result{Outcome: e.submitOut, Err: e.submitErr}
	}
	return e.completeLocked(d, comp, d.XferSize)
}

// completeLocked applies the descriptor's real memory effect for the
// configured number of completed bytes and classifies the outcome,
// mirroring what the device + waiter would jointly produce.
func (e *Engine) completeLocked(d *dispatch.Descriptor, comp *dispatch.CompletionRecord, xferSize uint32) dispatch.Result {
	if e.waitErr != nil {
		return dispatch.Result{Outcome: e.waitOut, Err: e.waitErr, Waits: e.waits}
	}

	if e.waitPartial > 0 {
		applied := int(xferSize) - e.waitPartial
		if applied < 0 {
			applied = 0
		}
		applyOp(d, applied)
		comp.Status = dispatch.CompPageFaultNoBOF
		comp.BytesCompleted = uint32(applied)
		return dispatch.Result{Outcome: api.PageFault, BytesCompleted: applied, Waits: e.waits}
	}

	if e.waitOut != api.Success {
		comp.Status = 0xff // generic non-success, non-page-fault status
		return dispatch.Result{Outcome: e.waitOut, Waits: e.waits}
	}

	mismatch := applyOp(d, int(xferSize))
	if mismatch {
		comp.Result = 1
	}
	comp.Status = dispatch.CompSuccess
	return dispatch.Result{Outcome: api.Success, BytesCompleted: int(xferSize), Waits: e.waits}
}

// applyOp performs the descriptor's operation against real memory for
// the first n bytes of its designated region, returning true for compare
// mismatches. Addresses come from addrOf() in the split package, which
// always derives them from a live Go slice, so the unsafe reconstruction
// here stays within that slice's backing array.
func applyOp(d *dispatch.Descriptor, n int) bool {
	if n <= 0 {
		return false
	}
	switch d.Opcode {
	case dispatch.OpcodeMemFill:
		dst := unsafe.Slice((*byte)(unsafe.Pointer(d.DstAddr)), n)
		pattern := byte(d.Pattern)
		for i := range dst {
			dst[i] = pattern
		}
	case dispatch.OpcodeMemMove:
		dst := unsafe.Slice((*byte)(unsafe.Pointer(d.DstAddr)), n)
		src := unsafe.Slice((*byte)(unsafe.Pointer(d.SrcAddr)), n)
		copy(dst, src)
	case dispatch.OpcodeCompare:
		a := unsafe.Slice((*byte)(unsafe.Pointer(d.SrcAddr)), n)
		b := unsafe.Slice((*byte)(unsafe.Pointer(d.Src2Addr)), n)
		return !bytes.Equal(a, b)
	}
	return false
}
