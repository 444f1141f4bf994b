//go:build !(linux && amd64)
// +build !linux !amd64

// Placeholder Engine for platforms without DSA/ENQCMD support. lifecycle
// never selects this in practice (it falls back to CPU-only dispatch
// instead), but the type must exist so the package builds everywhere.
package dispatch

import (
	"github.com/intel/dto/api"
	"github.com/intel/dto/internal/wq"
)

type hwEngine struct{}

// NewHWEngine returns an Engine that always reports ErrNotSupported.
func NewHWEngine() Engine { return &hwEngine{} }

func (e *hwEngine) Submit(*wq.WorkQueue, *Descriptor, *CompletionRecord) (api.Outcome, error) {
	return api.FailOther, api.ErrNotSupported
}

func (e *hwEngine) Wait(*CompletionRecord, uint32, api.WaitMethod) Result {
	return Result{Outcome: api.FailOther, Err: api.ErrNotSupported}
}

func (e *hwEngine) Execute(*wq.WorkQueue, *Descriptor, *CompletionRecord, api.WaitMethod) Result {
	return Result{Outcome: api.FailOther, Err: api.ErrNotSupported}
}
