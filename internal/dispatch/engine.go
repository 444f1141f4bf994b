package dispatch

import (
	"github.com/intel/dto/api"
	"github.com/intel/dto/internal/wq"
)

// Engine submits descriptors to a work queue's MMIO portal and waits for
// their completion record. A single Engine is shared process-wide; it is
// Go's stand-in for the original's free functions operating on thread-
// local descriptor/completion storage (spec §4.C, §9 "thread-local state").
type Engine interface {
	// Submit enqueues one descriptor via ENQCMD, retrying on a busy
	// portal up to a bounded number of attempts (spec §4.D).
	Submit(q *wq.WorkQueue, d *Descriptor, comp *CompletionRecord) (api.Outcome, error)

	// Wait blocks until comp's status byte is non-zero using the given
	// wait discipline, then classifies the result (spec §4.C, §4.E).
	Wait(comp *CompletionRecord, xferSize uint32, method api.WaitMethod) Result

	// Execute is Submit immediately followed by Wait, used for the
	// single-shot compare path that has no CPU-fallback portion to
	// overlap with (spec §4.C "compare descriptor path").
	Execute(q *wq.WorkQueue, d *Descriptor, comp *CompletionRecord, method api.WaitMethod) Result
}

// MaxSubmitRetries bounds ENQCMD retry attempts before reporting
// api.Retries, matching the original's ENQCMD_MAX_RETRIES.
const MaxSubmitRetries = 3
