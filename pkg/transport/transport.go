// Package transport provides the stream-oriented byte pipe used by a
// ring's worker to reach the collector (local domain socket) and by the
// dlt-control client to reach the collector over TCP. Two concrete variants share
// one contract: connect, send, receive, a single vectored write, and
// disconnect.
package transport

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// Conn is the uniform contract both transport variants satisfy.
type Conn interface {
	// Connect establishes the underlying connection.
	Connect(ctx context.Context) error
	// Send writes b in full or returns a classified error.
	Send(b []byte) (int, error)
	// Receive reads into buf, returning the number of bytes read.
	Receive(buf []byte) (int, error)
	// Writev issues one vectored write carrying all of bufs.
	Writev(bufs [][]byte) (int, error)
	// Disconnect closes the underlying connection.
	Disconnect() error
}

// writevRaw issues a single writev(2) against the connection's raw file
// descriptor, submitting every slice in bufs atomically from the kernel's
// point of view. It is shared by both the unix and tcp variants since
// golang.org/x/sys/unix.Writev only needs a raw fd.
func writevRaw(c net.Conn, bufs [][]byte) (int, error) {
	sc, ok := c.(syscall.Conn)
	if !ok {
		return 0, ErrFatal
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return 0, classify(err)
	}

	iovecs := make([][]byte, len(bufs))
	copy(iovecs, bufs)

	var n int
	var writeErr error
	ctrlErr := raw.Write(func(fd uintptr) bool {
		written, werr := unix.Writev(int(fd), iovecs)
		if werr != nil {
			// Always stop here, even on EAGAIN: returning false would have
			// raw.Write park and wait for writability internally, turning a
			// saturated non-blocking socket into an indefinite block on the
			// worker goroutine. classify() maps EAGAIN to ErrWouldBlock so
			// the caller gets it back immediately and can count the batch
			// as dropped instead of stalling the ring drain.
			writeErr = werr
			return true
		}
		n = written
		return true
	})
	if ctrlErr != nil {
		return 0, classify(ctrlErr)
	}
	if writeErr != nil {
		return n, classify(writeErr)
	}
	return n, nil
}
