// Package worker implements the single consumer thread of one ring:
// it drains envelopes, batches them without blocking beyond the first,
// and issues one vectored write per cycle to the collector.
package worker

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/envelope"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/logger"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/ring"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/transport"
)

// NewTransport builds the transport handle a worker should own. Supplied
// by the facade so worker stays agnostic of which concrete variant (unix
// or tcp) is in play.
type NewTransport func() transport.Conn

// Worker owns the consumer end of exactly one ring and the sole
// transport handle for that ring. It holds no back-reference to the
// facade or its siblings.
type Worker struct {
	name      string
	ring      *ring.Ring[*envelope.LogEnvelope]
	newConn   NewTransport
	conn      transport.Conn
	batchSize int
	localPrint func() bool

	reconnectLimiter *rate.Limiter
	connected        bool
}

// New creates a worker bound to ring r, named for observability (e.g.
// "dlt-worker-2"). localPrint is stored but not consulted: whether an
// envelope is echoed is decided by its own LocalPrint flag, which the
// facade sets at emit time.
func New(name string, r *ring.Ring[*envelope.LogEnvelope], newConn NewTransport, batchSize int, localPrint func() bool) *Worker {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Worker{
		name:             name,
		ring:             r,
		newConn:          newConn,
		batchSize:        batchSize,
		localPrint:       localPrint,
		reconnectLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// Run blocks, draining the ring until it closes with nothing left
// resident. Intended to be the body of the worker's dedicated goroutine.
func (w *Worker) Run(ctx context.Context) {
	defer w.disconnect()
	for {
		first, ok := w.ring.BlockingRecv()
		if !ok {
			return // ring closed and drained
		}
		batch := make([]*envelope.LogEnvelope, 0, w.batchSize)
		batch = append(batch, first)
		for len(batch) < w.batchSize {
			v, st := w.ring.TryRecv()
			if st != ring.Accepted {
				break
			}
			batch = append(batch, v)
		}

		w.printLocal(batch)
		w.deliver(ctx, batch)
	}
}

func (w *Worker) printLocal(batch []*envelope.LogEnvelope) {
	for _, env := range batch {
		if !env.LocalPrint {
			continue
		}
		fmt.Fprintf(os.Stdout, "%s %s %d %s\n", env.App.String(), env.Ctx.String(), env.Num, env.Message)
	}
}

// deliver ensures the worker is connected, then issues exactly one
// vectored write for the batch. On success the ring's sent counter is
// credited by the batch size; on failure the batch is accounted as
// dropped under the worker's (documented) silent-loss policy rather than
// retried.
func (w *Worker) deliver(ctx context.Context, batch []*envelope.LogEnvelope) {
	if !w.connected {
		if !w.reconnect(ctx) {
			w.ring.MarkDropped(len(batch))
			return
		}
	}

	bufs := make([][]byte, len(batch))
	for i, env := range batch {
		bufs[i] = env.Frame
	}

	_, err := w.conn.Writev(bufs)
	switch err {
	case nil:
		w.ring.MarkSent(len(batch))
	case transport.ErrWouldBlock:
		// Transient back-pressure at the transport layer: the batch is
		// not retried, matching the documented policy (see worker design
		// notes on WouldBlock handling).
		w.ring.MarkDropped(len(batch))
		logger.Warn("worker_writev_would_block", "worker", w.name, "batch", len(batch))
	default:
		logger.Warn("worker_writev_failed", "worker", w.name, "error", err)
		w.ring.MarkDropped(len(batch))
		w.connected = false
		_ = w.conn.Disconnect()
	}
}

func (w *Worker) reconnect(ctx context.Context) bool {
	if !w.reconnectLimiter.Allow() {
		return false
	}
	if w.conn == nil {
		w.conn = w.newConn()
	}
	if err := w.conn.Connect(ctx); err != nil {
		logger.Warn("worker_connect_failed", "worker", w.name, "error", err)
		return false
	}
	w.connected = true
	logger.Info("worker_connected", "worker", w.name)
	return true
}

func (w *Worker) disconnect() {
	if w.conn != nil {
		_ = w.conn.Disconnect()
	}
}
