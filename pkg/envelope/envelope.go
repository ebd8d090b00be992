// Package envelope defines the in-memory wrapper a ring carries: the
// precomputed wire frame plus routing and diagnostic metadata that never
// goes out over the wire itself.
package envelope

import "github.com/minminlittleshrimp/libdlt-ng/pkg/frame"

// LogEnvelope is what a producer enqueues and a worker drains. Frame is
// already serialized at enqueue time so the worker never touches the
// codec on the hot path.
type LogEnvelope struct {
	Frame      []byte
	Level      frame.LogLevel
	Ring       int
	App        frame.AppId
	Ctx        frame.ContextId
	Num        int
	Message    string
	LocalPrint bool
}
