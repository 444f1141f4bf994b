//go:build linux && amd64
// +build linux,amd64

package dispatch

import (
	"unsafe"

	"github.com/intel/dto/affinity"
	"github.com/intel/dto/api"
	"github.com/intel/dto/internal/wq"
)

// hwEngine submits real descriptors to DSA shared work queues.
type hwEngine struct{}

// NewHWEngine returns the production Engine backed by ENQCMD/UMWAIT.
func NewHWEngine() Engine { return &hwEngine{} }

func (e *hwEngine) Submit(q *wq.WorkQueue, d *Descriptor, comp *CompletionRecord) (api.Outcome, error) {
	cdesc := toCDesc(d, comp)
	sfence()
	return submitWithRetry(func() bool { return !enqcmdRetry(q.Portal, &cdesc) })
}

func (e *hwEngine) Wait(comp *CompletionRecord, xferSize uint32, method api.WaitMethod) Result {
	waits := waitLoop(comp, method)
	return classify(comp, xferSize, waits)
}

func (e *hwEngine) Execute(q *wq.WorkQueue, d *Descriptor, comp *CompletionRecord, method api.WaitMethod) Result {
	comp.Status = CompNone
	cdesc := toCDesc(d, comp)
	sfence()
	outcome, err := submitWithRetry(func() bool { return !enqcmdRetry(q.Portal, &cdesc) })
	if err != nil {
		return Result{Outcome: outcome, Err: err}
	}
	waits := waitLoop(comp, method)
	return classify(comp, d.XferSize, waits)
}

// waitLoop polls comp.Status using the requested discipline and returns
// how many wait iterations elapsed, input to the tuner's heuristic.
//
// BusyPoll and Umwait pin the calling OS thread for the duration of the
// spin, since an unpinned goroutine can migrate CPUs mid-wait in a way a
// pthread never would without asking (spec §4.E).
func waitLoop(comp *CompletionRecord, method api.WaitMethod) int {
	if method == api.WaitBusyPoll || method == api.WaitUmwait {
		if cpu, ok := currentCPU(); ok {
			if err := affinity.PinCurrentThread(-1, cpu); err == nil {
				defer affinity.UnpinCurrentThread()
			}
		}
	}

	statusAddr := unsafe.Pointer(&comp.Status)
	waits := 0
	for comp.Status == CompNone {
		switch method {
		case api.WaitYield:
			cpuYield()
		case api.WaitBusyPoll:
			cpuPause()
		case api.WaitUmwait:
			umonitor(statusAddr)
			if comp.Status == CompNone {
				umwaitUntil(rdtsc() + umwaitDelayCycles)
			}
		}
		waits++
	}
	return waits
}

func classify(comp *CompletionRecord, xferSize uint32, waits int) Result {
	switch {
	case comp.Status == CompSuccess:
		return Result{Outcome: api.Success, BytesCompleted: int(xferSize), Waits: waits}
	case comp.Status&compStatusMask == CompPageFaultNoBOF:
		return Result{Outcome: api.PageFault, BytesCompleted: int(comp.BytesCompleted), Waits: waits}
	default:
		return Result{Outcome: api.FailOther, Waits: waits, Err: api.NewError(api.ErrCodeInternal, "descriptor completed with failure status")}
	}
}
