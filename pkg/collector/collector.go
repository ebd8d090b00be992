// Package collector implements the out-of-process daemon side of the
// pipeline: an ingress listener that receives producer frame streams, an
// in-process shuttle buffer, and a TCP egress listener that fans byte
// chunks out to subscribers.
package collector

import (
	"context"
	"net"
	"os"
	"sync"

	"github.com/valyala/bytebufferpool"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/logger"
)

const ingressReadBuf = 4 * 1024

// Config configures a Collector's two listener endpoints and its admin
// HTTP surface.
type Config struct {
	IngressSocketPath string
	EgressAddr        string
	AdminAddr         string
	StatsCron         string
}

// DefaultConfig matches the documented endpoint defaults.
func DefaultConfig() Config {
	return Config{
		IngressSocketPath: "/tmp/dlt",
		EgressAddr:        "127.0.0.1:3490",
		AdminAddr:         "127.0.0.1:3491",
		StatsCron:         defaultStatsCron,
	}
}

// Collector binds the ingress and egress listeners and owns the shuttle
// buffer between them.
type Collector struct {
	cfg     Config
	shuttle *shuttle
	metrics *metrics

	mu          sync.Mutex
	subscribers int
}

// New constructs a Collector. Call Run to start serving.
func New(cfg Config) *Collector {
	m := newMetrics()
	return &Collector{
		cfg:     cfg,
		shuttle: newShuttle(m),
		metrics: m,
	}
}

// Run binds both listeners and the admin HTTP server, blocking until ctx
// is cancelled. A listener whose Accept fails stops serving, but Run still
// returns only after ctx is cancelled, and then returns nil; only a
// failure to bind a listener is returned as an error.
func (c *Collector) Run(ctx context.Context) error {
	if err := os.RemoveAll(c.cfg.IngressSocketPath); err != nil {
		logger.Warn("collector_ingress_socket_cleanup_failed", "path", c.cfg.IngressSocketPath, "error", err)
	}
	ingressLn, err := net.Listen("unix", c.cfg.IngressSocketPath)
	if err != nil {
		return err
	}
	egressLn, err := net.Listen("tcp", c.cfg.EgressAddr)
	if err != nil {
		ingressLn.Close()
		return err
	}

	adminSrv := c.newAdminServer()

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); c.serveIngress(ctx, ingressLn) }()
	go func() { defer wg.Done(); c.serveEgress(ctx, egressLn) }()
	go func() { defer wg.Done(); c.runStatsReporter(ctx, c.cfg.StatsCron) }()
	go func() {
		defer wg.Done()
		if err := adminSrv.ListenAndServe(); err != nil {
			logger.Info("collector_admin_server_stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		ingressLn.Close()
		egressLn.Close()
		_ = adminSrv.Close()
	}()

	wg.Wait()
	return nil
}

func (c *Collector) serveIngress(ctx context.Context, ln net.Listener) {
	logger.Info("collector_ingress_listening", "path", c.cfg.IngressSocketPath)
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				logger.Warn("collector_ingress_accept_failed", "error", err)
				return
			}
		}
		go c.handleIngressConn(conn)
	}
}

func (c *Collector) handleIngressConn(conn net.Conn) {
	defer conn.Close()

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	bb.B = bb.B[:cap(bb.B)]
	if len(bb.B) < ingressReadBuf {
		bb.B = make([]byte, ingressReadBuf)
	}

	for {
		n, err := conn.Read(bb.B)
		if n > 0 {
			// The shuttle and subscriber goroutines own this slice after
			// push; it must be a fresh copy, not a view into the pooled
			// buffer that the next Read will overwrite.
			chunk := make([]byte, n)
			copy(chunk, bb.B[:n])
			c.shuttle.push(chunk)
			c.metrics.ingressBytes.Add(float64(n))
		}
		if err != nil {
			return
		}
	}
}

func (c *Collector) serveEgress(ctx context.Context, ln net.Listener) {
	logger.Info("collector_egress_listening", "addr", c.cfg.EgressAddr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				logger.Warn("collector_egress_accept_failed", "error", err)
				return
			}
		}
		go c.handleSubscriber(conn)
	}
}

func (c *Collector) handleSubscriber(conn net.Conn) {
	defer conn.Close()
	c.addSubscriber(1)
	defer c.addSubscriber(-1)

	for chunk := range c.shuttle.out() {
		c.metrics.shuttleDepth.Set(float64(len(c.shuttle.out())))
		if _, err := conn.Write(chunk); err != nil {
			c.metrics.subscriberWriteErrs.Inc()
			return
		}
	}
}

func (c *Collector) addSubscriber(delta int) {
	c.mu.Lock()
	c.subscribers += delta
	n := c.subscribers
	c.mu.Unlock()
	c.metrics.subscribersConnected.Set(float64(n))
}
