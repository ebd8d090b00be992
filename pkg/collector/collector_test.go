package collector

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeTCPAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestCollectorForwardsIngressBytesToSubscriber(t *testing.T) {
	cfg := Config{
		IngressSocketPath: filepath.Join(t.TempDir(), "ingress.sock"),
		EgressAddr:        freeTCPAddr(t),
		AdminAddr:         freeTCPAddr(t),
		StatsCron:         defaultStatsCron,
	}
	c := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan struct{})
	go func() { c.Run(ctx); close(runDone) }()

	// Give the listeners a moment to bind.
	var sub net.Conn
	var err error
	for i := 0; i < 50; i++ {
		sub, err = net.Dial("tcp", cfg.EgressAddr)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	defer sub.Close()

	var producer net.Conn
	for i := 0; i < 50; i++ {
		producer, err = net.Dial("unix", cfg.IngressSocketPath)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	defer producer.Close()

	// Let the subscriber register before the producer writes.
	time.Sleep(20 * time.Millisecond)

	_, err = producer.Write([]byte("payload"))
	require.NoError(t, err)

	buf := make([]byte, 7)
	sub.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := sub.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(buf[:n]))

	cancel()
	select {
	case <-runDone:
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not shut down on context cancel")
	}
}

func TestAddSubscriberUpdatesCountAndMetric(t *testing.T) {
	c := New(DefaultConfig())
	c.addSubscriber(1)
	c.addSubscriber(1)
	c.addSubscriber(-1)

	c.mu.Lock()
	n := c.subscribers
	c.mu.Unlock()
	assert.Equal(t, 1, n)

	var m dto.Metric
	require.NoError(t, c.metrics.subscribersConnected.Write(&m))
	assert.Equal(t, 1.0, m.GetGauge().GetValue())
}
