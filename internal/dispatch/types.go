// Package dispatch carries one memory-primitive call through descriptor
// submission, waiting, and partial-completion handling (spec §4.C/D/E).
//
// Grounded on the original's dsa_submit/dsa_execute/dsa_wait trio
// (_examples/original_source/dto.c) and on the teacher's fake/transport.go
// controllable-outcome test double, adapted here as fake.Engine.
package dispatch

import "github.com/intel/dto/api"

// Opcode mirrors the DSA_OPCODE_* values the original descriptor's
// opcode field carries.
type Opcode uint8

const (
	OpcodeMemFill  Opcode = 0x04
	OpcodeMemMove  Opcode = 0x03
	OpcodeCompare  Opcode = 0x05
)

// Descriptor flags, named for the IDXD_OP_FLAG_* bits the original sets.
const (
	FlagCompletionRecordAddrValid = 0x0004 // CRAV
	FlagRequestCompletionRecord   = 0x0008 // RCR
	FlagCacheControl              = 0x0100 // CC: write completes through cache
)

// Descriptor holds the fields of struct dsa_hw_desc this library sets;
// toCDesc marshals it into the kernel's 64-byte layout before ENQCMD.
type Descriptor struct {
	Opcode    Opcode
	Flags     uint32
	SrcAddr   uintptr
	Src2Addr  uintptr // second source, compare only
	DstAddr   uintptr
	XferSize  uint32
	Pattern   uint64 // fill value, 8-byte replicated
}

// CompletionRecord mirrors struct dsa_completion_record: the cache-line
// the device writes on completion. Status is polled as a single byte.
type CompletionRecord struct {
	Status          uint8
	Result          uint8 // compare: 0 equal, nonzero mismatch
	BytesCompleted  uint32
}

// Completion status codes, named for DSA_COMP_*.
const (
	CompNone            uint8 = 0x00
	CompSuccess         uint8 = 0x01
	CompPageFaultNoBOF  uint8 = 0x03
	compStatusMask      uint8 = 0x7f
)

// Result classifies a single submit+wait round trip.
type Result struct {
	Outcome        api.Outcome
	BytesCompleted int
	Waits          int
	Err            error
}
