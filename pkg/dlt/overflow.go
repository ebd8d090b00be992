package dlt

import "sync/atomic"

// OverflowMode selects the policy applied when a ring is full at enqueue
// time. Stored as a single byte in a process-wide atomic register so a
// runtime mode switch never needs a mutex.
type OverflowMode byte

const (
	OverflowOverwrite        OverflowMode = 0
	OverflowDropNewest       OverflowMode = 1
	OverflowBlockWithTimeout OverflowMode = 2
)

func (m OverflowMode) String() string {
	switch m {
	case OverflowOverwrite:
		return "overwrite"
	case OverflowDropNewest:
		return "drop_newest"
	case OverflowBlockWithTimeout:
		return "block_with_timeout"
	default:
		return "overwrite" // readers treat out-of-range values as Overwrite
	}
}

// ParseOverflowMode validates a caller-supplied byte. Values outside
// 0..=2 are rejected by returning Overwrite, matching the spec's
// reader-side fallback rule.
func ParseOverflowMode(b byte) OverflowMode {
	switch b {
	case byte(OverflowDropNewest):
		return OverflowDropNewest
	case byte(OverflowBlockWithTimeout):
		return OverflowBlockWithTimeout
	default:
		return OverflowOverwrite
	}
}

// overflowRegister is the atomic, mutex-free home for the live overflow
// policy. A mode change takes effect for the next emit; it never
// reorders or touches already-enqueued envelopes.
type overflowRegister struct {
	v atomic.Uint32
}

func (r *overflowRegister) store(m OverflowMode) { r.v.Store(uint32(m)) }

func (r *overflowRegister) load() OverflowMode {
	return ParseOverflowMode(byte(r.v.Load()))
}

// localPrintRegister is the equivalent single-atomic home for the
// human-readable echo toggle.
type localPrintRegister struct {
	v atomic.Bool
}

func (r *localPrintRegister) store(on bool) { r.v.Store(on) }
func (r *localPrintRegister) load() bool    { return r.v.Load() }
