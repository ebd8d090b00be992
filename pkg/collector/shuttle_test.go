package collector

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestShuttlePushDeliversToReceiver(t *testing.T) {
	m := newMetrics()
	s := newShuttle(m)

	s.push([]byte("hello"))
	got := <-s.out()
	assert.Equal(t, "hello", string(got))
}

func TestShuttleDropsWhenFull(t *testing.T) {
	m := newMetrics()
	s := newShuttle(m)

	for i := 0; i < shuttleCapacity; i++ {
		s.push([]byte{byte(i)})
	}
	before := counterValue(t, m.ingressChunksDropped)
	s.push([]byte("overflow"))
	after := counterValue(t, m.ingressChunksDropped)

	assert.Equal(t, before+1, after)
}

func TestShuttleDeliversEachChunkOnceInOrder(t *testing.T) {
	m := newMetrics()
	s := newShuttle(m)

	const n = 20
	for i := 0; i < n; i++ {
		s.push([]byte{byte(i)})
	}

	seen := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		seen = append(seen, (<-s.out())[0])
	}
	assert.Len(t, seen, n)
	for i, b := range seen {
		assert.Equal(t, byte(i), b)
	}
}
