// Package dlt is the process-wide producer API: a facade singleton that
// owns the rings, their workers, and the runtime-switchable overflow
// policy. Initialization happens once, lazily, on first reference; the
// facade then lives for the process and is never torn down during
// normal operation.
package dlt

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/envelope"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/frame"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/logger"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/ring"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/transport"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/worker"
)

// Facade is the process-wide singleton described in the package doc.
// Construct one through Default(); never build one by hand.
type Facade struct {
	cfg    Config
	ecu    frame.EcuId
	rings  []*ring.Ring[*envelope.LogEnvelope]
	cancel context.CancelFunc

	overflow   overflowRegister
	localPrint localPrintRegister
	mcnt       atomic.Uint32
}

var (
	instance   *Facade
	initOnce   sync.Once
)

// Default returns the process-wide facade, constructing it on first call.
func Default() *Facade {
	initOnce.Do(func() {
		instance = newFacade(loadConfig())
	})
	return instance
}

func newFacade(cfg Config) *Facade {
	logger.Info("dlt_facade_init", "num_buffers", cfg.NumBuffers)
	ctx, cancel := context.WithCancel(context.Background())

	f := &Facade{
		cfg:    cfg,
		ecu:    frame.NewEcuId("ECU1"),
		rings:  make([]*ring.Ring[*envelope.LogEnvelope], cfg.NumBuffers),
		cancel: cancel,
	}
	f.overflow.store(cfg.OverflowMode)

	for i := 0; i < cfg.NumBuffers; i++ {
		capacity := defaultBufferSize
		if i < len(cfg.BufferSize) {
			capacity = cfg.BufferSize[i]
		}
		f.rings[i] = ring.New[*envelope.LogEnvelope](capacity)
	}

	for i, r := range f.rings {
		name := fmt.Sprintf("dlt-worker-%d", i)
		newConn := func() transport.Conn { return transport.NewUnixClient(cfg.SocketPath) }
		w := worker.New(name, r, newConn, cfg.BatchSize, f.localPrint.load)
		go w.Run(ctx)
	}

	return f
}

// Shutdown is a best-effort teardown hook for processes that want a
// clean exit: it closes every ring (letting each worker drain what is
// already resident and exit) and cancels the worker context. Workers are
// never joined during normal operation; this exists only for deliberate
// process shutdown sequences.
func (f *Facade) Shutdown() {
	for _, r := range f.rings {
		r.Close()
	}
	f.cancel()
}

// NumRings returns the configured, immutable-for-process-lifetime ring
// count.
func (f *Facade) NumRings() int { return len(f.rings) }

// SetLocalPrint toggles the per-envelope human-readable echo.
func (f *Facade) SetLocalPrint(on bool) { f.localPrint.store(on) }

// GetLocalPrint reports the current echo toggle.
func (f *Facade) GetLocalPrint() bool { return f.localPrint.load() }

// SetOverflowMode validates and installs a new overflow policy. Unlike
// the fallback applied when reading a corrupted register, the setter
// rejects any byte outside 0..=2.
func (f *Facade) SetOverflowMode(mode byte) error {
	if mode > byte(OverflowBlockWithTimeout) {
		return ErrInvalidArgument
	}
	f.overflow.store(OverflowMode(mode))
	return nil
}

// GetOverflowMode reports the currently active policy.
func (f *Facade) GetOverflowMode() OverflowMode { return f.overflow.load() }

// RingStats mirrors ring.Stats for the facade's public surface.
type RingStats struct {
	Enqueued uint64
	Dropped  uint64
	Sent     uint64
}

// GetStats returns the counters for ringIdx, or ok=false if out of range.
func (f *Facade) GetStats(ringIdx int) (RingStats, bool) {
	if ringIdx < 0 || ringIdx >= len(f.rings) {
		return RingStats{}, false
	}
	s := f.rings[ringIdx].Stats()
	return RingStats{Enqueued: s.Enqueued, Dropped: s.Dropped, Sent: s.Sent}, true
}

// OverflowCount sums drops across every ring.
func (f *Facade) OverflowCount() uint64 {
	var total uint64
	for _, r := range f.rings {
		total += r.Stats().Dropped
	}
	return total
}

// selectRing is the pure, deterministic routing function of (level, N).
func (f *Facade) selectRing(level frame.LogLevel) int {
	n := len(f.rings)
	switch level {
	case frame.LevelFatal:
		return 0
	case frame.LevelError:
		return 1 % n
	default:
		return int(level) % n
	}
}

// Emit is the hot path: build the payload, encode a frame, select a ring
// by level, and enqueue per the current overflow mode. It never holds a
// mutex across the encode and the enqueue.
func (f *Facade) Emit(h *ContextHandle, level frame.LogLevel, num int, message string) error {
	return f.emit(h, level, num, message, f.selectRing(level))
}

// EmitToRing behaves like Emit but targets an explicit ring index.
func (f *Facade) EmitToRing(h *ContextHandle, level frame.LogLevel, num int, message string, ringIdx int) error {
	if ringIdx < 0 || ringIdx >= len(f.rings) {
		return ErrInvalidArgument
	}
	return f.emit(h, level, num, message, ringIdx)
}

func (f *Facade) emit(h *ContextHandle, level frame.LogLevel, num int, message string, ringIdx int) error {
	payload := fmt.Sprintf("%d %s", num, message)
	sec, usec := frame.Now()
	mcnt := byte(f.mcnt.Add(1))

	wire := frame.Encode(frame.Frame{
		Sec:      sec,
		Usec:     usec,
		Ecu:      f.ecu,
		Mcnt:     mcnt,
		Extended: true,
		Noar:     1,
		App:      h.App,
		Ctx:      h.Ctx,
		Payload:  payload,
	})

	env := &envelope.LogEnvelope{
		Frame:      wire,
		Level:      level,
		Ring:       ringIdx,
		App:        h.App,
		Ctx:        h.Ctx,
		Num:        num,
		Message:    message,
		LocalPrint: f.localPrint.load(),
	}

	r := f.rings[ringIdx]
	switch f.overflow.load() {
	case OverflowDropNewest:
		switch r.TryEnqueue(env) {
		case ring.Accepted:
			return nil
		case ring.Closed:
			return ErrRingFull
		default:
			return ErrRingFull
		}
	case OverflowBlockWithTimeout:
		switch r.EnqueueWithTimeout(env, f.cfg.Timeout) {
		case ring.Accepted:
			return nil
		case ring.TimedOut:
			return ErrRingTimeout
		default:
			return ErrRingFull
		}
	default: // Overwrite, and the reader-side fallback for any corrupt byte
		switch r.EnqueueOverwrite(env) {
		case ring.Accepted:
			return nil
		default:
			return ErrRingFull
		}
	}
}

// package-level convenience wrappers over the Default() singleton.

// NewContext is documented in context.go.
func SetLocalPrint(on bool)           { Default().SetLocalPrint(on) }
func GetLocalPrint() bool             { return Default().GetLocalPrint() }
func SetOverflowMode(mode byte) error { return Default().SetOverflowMode(mode) }
func GetOverflowMode() OverflowMode   { return Default().GetOverflowMode() }
func NumRings() int                  { return Default().NumRings() }
func OverflowCount() uint64          { return Default().OverflowCount() }
func GetStats(ringIdx int) (RingStats, bool) { return Default().GetStats(ringIdx) }

func Emit(h *ContextHandle, level frame.LogLevel, num int, message string) error {
	return Default().Emit(h, level, num, message)
}

func EmitToRing(h *ContextHandle, level frame.LogLevel, num int, message string, ringIdx int) error {
	return Default().EmitToRing(h, level, num, message, ringIdx)
}
