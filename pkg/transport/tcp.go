package transport

import (
	"context"
	"net"
)

// TCPClient is the remote-capable transport variant. cmd/dlt-control uses
// it to reach the collector's egress endpoint; it is also usable as a
// producer transport when the collector endpoint is not co-located.
type TCPClient struct {
	addr string
	conn *net.TCPConn
}

// NewTCPClient creates a transport bound to addr (host:port).
func NewTCPClient(addr string) *TCPClient {
	return &TCPClient{addr: addr}
}

// WrapTCPConn adapts an already-accepted connection (e.g. from a
// net.Listener) to the transport.Conn contract, skipping Connect.
func WrapTCPConn(conn *net.TCPConn) *TCPClient {
	return &TCPClient{conn: conn}
}

func (c *TCPClient) Connect(ctx context.Context) error {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return classify(err)
	}
	c.conn = conn.(*net.TCPConn)
	return nil
}

func (c *TCPClient) Send(b []byte) (int, error) {
	if c.conn == nil {
		return 0, ErrNotConnected
	}
	n, err := c.conn.Write(b)
	return n, classify(err)
}

func (c *TCPClient) Receive(buf []byte) (int, error) {
	if c.conn == nil {
		return 0, ErrNotConnected
	}
	n, err := c.conn.Read(buf)
	return n, classify(err)
}

func (c *TCPClient) Writev(bufs [][]byte) (int, error) {
	if c.conn == nil {
		return 0, ErrNotConnected
	}
	return writevRaw(c.conn, bufs)
}

func (c *TCPClient) Disconnect() error {
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

var _ Conn = (*TCPClient)(nil)
