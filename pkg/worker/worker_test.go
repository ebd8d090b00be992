package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/envelope"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/frame"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/ring"
	"github.com/minminlittleshrimp/libdlt-ng/pkg/transport"
)

// fakeConn is a test double satisfying transport.Conn without touching the
// network; it records every vectored write it receives.
type fakeConn struct {
	mu          sync.Mutex
	connectErr  error
	writevErr   error
	connectCall int
	written     [][][]byte
}

func (f *fakeConn) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectCall++
	return f.connectErr
}

func (f *fakeConn) Send(b []byte) (int, error) { return len(b), nil }

func (f *fakeConn) Receive(buf []byte) (int, error) { return 0, nil }

func (f *fakeConn) Writev(bufs [][]byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writevErr != nil {
		return 0, f.writevErr
	}
	f.written = append(f.written, bufs)
	n := 0
	for _, b := range bufs {
		n += len(b)
	}
	return n, nil
}

func (f *fakeConn) Disconnect() error { return nil }

func (f *fakeConn) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.written)
}

var _ transport.Conn = (*fakeConn)(nil)

func newEnvelope(msg string) *envelope.LogEnvelope {
	return &envelope.LogEnvelope{
		Frame:   []byte(msg),
		App:     frame.NewAppId("APP"),
		Ctx:     frame.NewContextId("CTX"),
		Message: msg,
	}
}

func TestWorkerDeliversBatchOnSuccessfulConnect(t *testing.T) {
	r := ring.New[*envelope.LogEnvelope](8)
	fc := &fakeConn{}
	w := New("w", r, func() transport.Conn { return fc }, 4, func() bool { return false })

	r.TryEnqueue(newEnvelope("a"))
	r.TryEnqueue(newEnvelope("b"))
	r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() { w.Run(ctx); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not finish draining a closed ring")
	}

	assert.Equal(t, 1, fc.writeCount())
	stats := r.Stats()
	assert.EqualValues(t, 2, stats.Sent)
}

func TestWorkerDropsBatchWhenConnectFails(t *testing.T) {
	r := ring.New[*envelope.LogEnvelope](8)
	fc := &fakeConn{connectErr: transport.ErrFatal}
	w := New("w", r, func() transport.Conn { return fc }, 4, func() bool { return false })

	r.TryEnqueue(newEnvelope("a"))
	r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() { w.Run(ctx); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not finish draining")
	}

	assert.Equal(t, 0, fc.writeCount())
	stats := r.Stats()
	assert.EqualValues(t, 1, stats.Dropped)
}

func TestWorkerDropsOnWouldBlockAndStaysConnected(t *testing.T) {
	r := ring.New[*envelope.LogEnvelope](8)
	fc := &fakeConn{writevErr: transport.ErrWouldBlock}
	w := New("w", r, func() transport.Conn { return fc }, 4, func() bool { return false })

	r.TryEnqueue(newEnvelope("a"))
	r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() { w.Run(ctx); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not finish draining")
	}

	stats := r.Stats()
	assert.EqualValues(t, 1, stats.Dropped)
	assert.True(t, w.connected)
}

func TestWorkerSkipsLocalPrintWhenDisabled(t *testing.T) {
	r := ring.New[*envelope.LogEnvelope](4)
	w := New("w", r, func() transport.Conn { return &fakeConn{} }, 4, func() bool { return false })

	env := newEnvelope("quiet")
	env.LocalPrint = false
	// printLocal must not panic or write anything observable when disabled;
	// this primarily documents the contract since stdout isn't captured here.
	w.printLocal([]*envelope.LogEnvelope{env})
}

func TestNewClampsBatchSizeToAtLeastOne(t *testing.T) {
	r := ring.New[*envelope.LogEnvelope](4)
	w := New("w", r, func() transport.Conn { return &fakeConn{} }, 0, func() bool { return false })
	require.NotNil(t, w)
	assert.Equal(t, 1, w.batchSize)
}
