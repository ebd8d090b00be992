package dlt

import "errors"

// ErrInvalidArgument covers a bad ring index or an out-of-range overflow
// mode byte supplied to SetOverflowMode.
var ErrInvalidArgument = errors.New("dlt: invalid argument")

// ErrRingFull is returned from the emit path in the non-blocking modes,
// and for a closed ring in every mode. Overwrite normally displaces
// instead; it returns ErrRingFull only for a closed ring or when its
// bounded displacement retries are exhausted.
var ErrRingFull = errors.New("dlt: ring full")

// ErrRingTimeout is returned in BlockWithTimeout mode when the configured
// timeout elapses without capacity becoming available.
var ErrRingTimeout = errors.New("dlt: ring enqueue timed out")
