package transport

import (
	"context"
	"net"

	"golang.org/x/sys/unix"
)

// defaultSendBuffer is the best-effort SO_SNDBUF the producer side
// requests right after connecting.
const defaultSendBuffer = 64 * 1024

// UnixClient is the producer-side transport to the collector's local
// domain ingress socket. Producer sockets are non-blocking by default
// once connected, matching the worker's would-block handling.
type UnixClient struct {
	path string
	conn *net.UnixConn
}

// NewUnixClient creates a transport bound to the collector's local
// domain socket path (e.g. "/tmp/dlt").
func NewUnixClient(path string) *UnixClient {
	return &UnixClient{path: path}
}

func (c *UnixClient) Connect(ctx context.Context) error {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "unix", c.path)
	if err != nil {
		return classify(err)
	}
	uc := conn.(*net.UnixConn)
	c.conn = uc
	_ = c.SetNonblocking(true)
	_ = c.SetSendBuffer(defaultSendBuffer)
	return nil
}

// SetNonblocking toggles the non-blocking mode of the underlying fd.
// Go's net package already multiplexes blocking calls onto the runtime
// poller; this exists so callers can assert the fd-level mode for parity
// with the on-wire protocol's C heritage, and so Writev's EAGAIN path
// behaves exactly like a raw non-blocking socket.
func (c *UnixClient) SetNonblocking(nonblocking bool) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	raw, err := c.conn.SyscallConn()
	if err != nil {
		return classify(err)
	}
	var ctrlErr error
	err = raw.Control(func(fd uintptr) {
		ctrlErr = unix.SetNonblock(int(fd), nonblocking)
	})
	if err != nil {
		return classify(err)
	}
	return ctrlErr
}

// SetSendBuffer sets SO_SNDBUF best-effort; failure is non-fatal.
func (c *UnixClient) SetSendBuffer(bytes int) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	raw, err := c.conn.SyscallConn()
	if err != nil {
		return nil //nolint:nilerr // best-effort
	}
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, bytes)
	})
	return nil
}

func (c *UnixClient) Send(b []byte) (int, error) {
	if c.conn == nil {
		return 0, ErrNotConnected
	}
	n, err := c.conn.Write(b)
	return n, classify(err)
}

func (c *UnixClient) Receive(buf []byte) (int, error) {
	if c.conn == nil {
		return 0, ErrNotConnected
	}
	n, err := c.conn.Read(buf)
	return n, classify(err)
}

func (c *UnixClient) Writev(bufs [][]byte) (int, error) {
	if c.conn == nil {
		return 0, ErrNotConnected
	}
	return writevRaw(c.conn, bufs)
}

func (c *UnixClient) Disconnect() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		return classify(err)
	}
	return nil
}

var _ Conn = (*UnixClient)(nil)
