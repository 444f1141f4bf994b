// Package api
//
// Shared enums and value types for the dto library: memory-operation kinds,
// wait disciplines, NUMA modes, and submission outcomes.

package api

// MemOp identifies which standard memory primitive a call is servicing.
type MemOp int

const (
	OpFill MemOp = iota
	OpCopy
	OpMove
	OpCompare
	maxMemOp
)

func (op MemOp) String() string {
	switch op {
	case OpFill:
		return "set"
	case OpCopy:
		return "cpy"
	case OpMove:
		return "mov"
	case OpCompare:
		return "cmp"
	default:
		return "unknown"
	}
}

// PathOutcome classifies, for stat-histogram purposes, which path
// serviced a completed call: entirely the CPU, fully offloaded and
// completed by the accelerator, or offloaded but not fully completed by
// the accelerator (with the residual finished on the CPU). Mirrors the
// original's STDC_CALL/DSA_CALL_SUCCESS/DSA_CALL_FAILED stat groups
// (spec §3 "Stat histogram"), collapsed to one classification per call
// rather than the original's up-to-two-records-per-call scheme.
type PathOutcome int

const (
	PathCPU PathOutcome = iota
	PathAccelSuccess
	PathAccelFailure
)

func (p PathOutcome) String() string {
	switch p {
	case PathCPU:
		return "cpu"
	case PathAccelSuccess:
		return "accel_success"
	case PathAccelFailure:
		return "accel_failure"
	default:
		return "unknown"
	}
}

// Outcome classifies the result of a single descriptor submission/wait.
type Outcome int

const (
	Success Outcome = iota
	Retries
	PageFault
	FailOther
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Retries:
		return "retries"
	case PageFault:
		return "page_fault"
	case FailOther:
		return "fail_other"
	default:
		return "unknown"
	}
}

// WaitMethod selects the discipline used while a thread awaits completion.
type WaitMethod int

const (
	WaitYield WaitMethod = iota
	WaitBusyPoll
	WaitUmwait
)

func (w WaitMethod) String() string {
	switch w {
	case WaitYield:
		return "yield"
	case WaitBusyPoll:
		return "busypoll"
	case WaitUmwait:
		return "umwait"
	default:
		return "unknown"
	}
}

// NumaMode selects how a WQ is chosen relative to NUMA topology.
type NumaMode int

const (
	NumaNone NumaMode = iota
	NumaBufferCentric
	NumaCPUCentric
)

func (n NumaMode) String() string {
	switch n {
	case NumaNone:
		return "none"
	case NumaBufferCentric:
		return "buffer-centric"
	case NumaCPUCentric:
		return "cpu-centric"
	default:
		return "unknown"
	}
}
