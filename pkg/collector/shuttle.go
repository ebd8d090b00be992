package collector

// shuttleCapacity is the bounded number of byte-chunks the collector
// holds between ingress reads and egress writes.
const shuttleCapacity = 1024

// shuttle is the in-process buffer between the ingress listener and the
// egress subscriber fan-out. The collector does not reframe: whatever
// byte chunk a read produced is what a subscriber eventually writes.
//
// Because every subscriber goroutine ranges over the same channel, each
// chunk is delivered to at most one subscriber (worker-stealing), not
// broadcast to all of them. This is a deliberate, documented choice (see
// the design notes on shuttle fan-out) rather than an accident of the
// channel-based implementation.
type shuttle struct {
	ch chan []byte
	m  *metrics
}

func newShuttle(m *metrics) *shuttle {
	return &shuttle{ch: make(chan []byte, shuttleCapacity), m: m}
}

// push enqueues a chunk without blocking the ingress reader indefinitely;
// a full shuttle drops the chunk and counts it, rather than applying
// back-pressure to the producer's socket.
func (s *shuttle) push(chunk []byte) {
	select {
	case s.ch <- chunk:
		s.m.shuttleDepth.Set(float64(len(s.ch)))
	default:
		s.m.ingressChunksDropped.Inc()
	}
}

// out exposes the receive side for subscriber goroutines to range over.
func (s *shuttle) out() <-chan []byte { return s.ch }
