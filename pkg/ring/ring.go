// Package ring implements the bounded, multi-producer / single-consumer
// queue that sits between producer threads and the per-ring worker.
//
// The enqueue side is built on the classic bounded MPMC slot-sequencing
// algorithm (Dmitry Vyukov): each slot carries its own turn sequence, so
// producers never touch a shared mutex and a suspended producer can never
// block another producer's CAS loop or the consumer's drain. Overwrite
// mode generalizes the same algorithm by letting a producer also advance
// the consumer index by one slot (a bounded, CAS-guarded eviction) before
// retrying its own insert.
package ring

import (
	"sync/atomic"
	"time"
)

// Status is the outcome of a ring operation.
type Status int

const (
	Accepted Status = iota
	Full
	Closed
	TimedOut
	Empty
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Full:
		return "full"
	case Closed:
		return "closed"
	case TimedOut:
		return "timed_out"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

type cell[T any] struct {
	seq  atomic.Uint64
	data T
}

// Ring is a bounded queue of T with capacity rounded up to the next power
// of two. Zero value is not usable; construct with New.
type Ring[T any] struct {
	buf  []cell[T]
	mask uint64
	cap  uint64

	head atomic.Uint64 // next slot the consumer will read
	tail atomic.Uint64 // next slot a producer may claim

	closed atomic.Bool

	// wake/notFull are best-effort, non-blocking signal channels. Losing a
	// signal is harmless: BlockingRecv and EnqueueWithTimeout fall back to
	// a short poll interval, so no producer or consumer can stall forever
	// on a missed notification.
	wake    chan struct{}
	notFull chan struct{}

	enqueued atomic.Uint64
	dropped  atomic.Uint64
	sent     atomic.Uint64
}

// New creates a Ring with the given capacity (rounded up to a power of 2,
// minimum 2).
func New[T any](capacity int) *Ring[T] {
	if capacity < 2 {
		capacity = 2
	}
	n := roundToPow2(capacity)
	r := &Ring[T]{
		buf:     make([]cell[T], n),
		mask:    uint64(n - 1),
		cap:     uint64(n),
		wake:    make(chan struct{}, 1),
		notFull: make(chan struct{}, 1),
	}
	for i := range r.buf {
		r.buf[i].seq.Store(uint64(i))
	}
	return r
}

func roundToPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Cap reports the usable capacity.
func (r *Ring[T]) Cap() int { return int(r.cap) }

// Close marks the ring closed. Already-enqueued elements remain available
// to the consumer; further enqueue attempts return Closed.
func (r *Ring[T]) Close() { r.closed.Store(true) }

// Stats is a point-in-time snapshot of a ring's counters.
type Stats struct {
	Enqueued uint64
	Dropped  uint64
	Sent     uint64
}

// Stats returns the current counter values.
func (r *Ring[T]) Stats() Stats {
	return Stats{
		Enqueued: r.enqueued.Load(),
		Dropped:  r.dropped.Load(),
		Sent:     r.sent.Load(),
	}
}

// MarkSent credits n envelopes as delivered. Called by the owning worker
// after a successful vectored write.
func (r *Ring[T]) MarkSent(n int) { r.sent.Add(uint64(n)) }

// MarkDropped credits n envelopes as lost outside the enqueue path itself
// (e.g. a transport WouldBlock that silently loses a collected batch).
func (r *Ring[T]) MarkDropped(n int) { r.dropped.Add(uint64(n)) }

func (r *Ring[T]) signalWake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Ring[T]) signalNotFull() {
	select {
	case r.notFull <- struct{}{}:
	default:
	}
}

// pushRaw attempts one lock-free insert at the current tail. It never
// blocks and never touches the enqueued/dropped counters; callers own
// counter bookkeeping so that a single logical Enqueue call — however
// many CAS attempts it takes internally — counts exactly once.
func (r *Ring[T]) pushRaw(v T) bool {
	for {
		pos := r.tail.Load()
		c := &r.buf[pos&r.mask]
		seq := c.seq.Load()
		diff := int64(seq) - int64(pos)
		switch {
		case diff == 0:
			if r.tail.CompareAndSwap(pos, pos+1) {
				c.data = v
				c.seq.Store(pos + 1)
				return true
			}
		case diff < 0:
			return false // full
		default:
			// another producer has already claimed this position; retry
		}
	}
}

// evictOldestRaw advances head by one slot, discarding whatever resides
// there. Returns false if it lost the race to another evictor or the
// consumer, or if the ring was in fact empty.
func (r *Ring[T]) evictOldestRaw() bool {
	pos := r.head.Load()
	c := &r.buf[pos&r.mask]
	seq := c.seq.Load()
	if int64(seq)-int64(pos+1) != 0 {
		return false // nothing resident at pos yet
	}
	if !r.head.CompareAndSwap(pos, pos+1) {
		return false
	}
	var zero T
	c.data = zero
	c.seq.Store(pos + r.cap)
	r.signalNotFull()
	return true
}

// popRaw is the consumer dequeue step. It claims its slot with the same
// head CAS an evictor uses, rather than an unconditional store: under
// Overwrite mode a producer's evictOldestRaw races the consumer for the
// same head position, and only whichever of the two wins the CAS may
// touch the cell. Without this, both sides could process the same
// envelope (delivered by the consumer, simultaneously counted as
// dropped by the evictor), breaking counter conservation.
func (r *Ring[T]) popRaw() (T, bool) {
	for {
		pos := r.head.Load()
		c := &r.buf[pos&r.mask]
		seq := c.seq.Load()
		diff := int64(seq) - int64(pos+1)
		if diff != 0 {
			var zero T
			return zero, false
		}
		if !r.head.CompareAndSwap(pos, pos+1) {
			// An evictor claimed this slot first; retry against the new head.
			continue
		}
		v := c.data
		var zero T
		c.data = zero
		c.seq.Store(pos + r.cap)
		r.signalNotFull()
		return v, true
	}
}

// TryEnqueue is the wait-free, non-displacing insert used directly by
// DropNewest mode. The other two modes do not call it; they share its
// pushRaw step.
func (r *Ring[T]) TryEnqueue(v T) Status {
	r.enqueued.Add(1)
	if r.closed.Load() {
		return Closed
	}
	if r.pushRaw(v) {
		r.signalWake()
		return Accepted
	}
	r.dropped.Add(1)
	return Full
}

// EnqueueOverwrite inserts v, displacing the oldest resident element when
// the ring is full. Exactly one drop is counted per displacement.
func (r *Ring[T]) EnqueueOverwrite(v T) Status {
	r.enqueued.Add(1)
	if r.closed.Load() {
		return Closed
	}
	// Bounded retry: at most cap+1 rounds guarantees progress even under
	// maximal contention, since each round either inserts or evicts.
	for attempt := uint64(0); attempt < r.cap+1; attempt++ {
		if r.pushRaw(v) {
			r.signalWake()
			return Accepted
		}
		if r.evictOldestRaw() {
			r.dropped.Add(1)
			continue
		}
		// Lost the eviction race to a sibling producer; its eviction
		// frees a slot we can claim on the next loop iteration.
	}
	r.dropped.Add(1)
	return Full
}

// EnqueueWithTimeout waits up to timeout for capacity, then inserts or
// gives up. Exactly one drop is counted on timeout.
func (r *Ring[T]) EnqueueWithTimeout(v T, timeout time.Duration) Status {
	r.enqueued.Add(1)
	if r.closed.Load() {
		return Closed
	}
	if r.pushRaw(v) {
		r.signalWake()
		return Accepted
	}
	deadline := time.Now().Add(timeout)
	const pollInterval = 2 * time.Millisecond
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			r.dropped.Add(1)
			return TimedOut
		}
		wait := pollInterval
		if remaining < wait {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-r.notFull:
			timer.Stop()
		case <-timer.C:
		}
		if r.closed.Load() {
			return Closed
		}
		if r.pushRaw(v) {
			r.signalWake()
			return Accepted
		}
	}
}

// TryRecv is the non-blocking consumer-side dequeue.
func (r *Ring[T]) TryRecv() (T, Status) {
	v, ok := r.popRaw()
	if !ok {
		var zero T
		return zero, Empty
	}
	return v, Accepted
}

// BlockingRecv suspends until an element is available or the ring closes
// with nothing left to drain. Only the owning worker should call this.
func (r *Ring[T]) BlockingRecv() (T, bool) {
	const pollInterval = 5 * time.Millisecond
	for {
		if v, st := r.TryRecv(); st == Accepted {
			return v, true
		}
		if r.closed.Load() {
			if v, st := r.TryRecv(); st == Accepted {
				return v, true
			}
			var zero T
			return zero, false
		}
		timer := time.NewTimer(pollInterval)
		select {
		case <-r.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}
