package dlt

import "github.com/minminlittleshrimp/libdlt-ng/pkg/frame"

// ContextHandle is returned by NewContext. Descriptions exist only for
// API parity with the inspiration protocol's registration message; they
// never reach the wire. Multiple handles sharing the same ids are
// permitted and indistinguishable.
type ContextHandle struct {
	App     frame.AppId
	Ctx     frame.ContextId
	appDesc string
	ctxDesc string
}

// NewContext registers a context handle. The facade is lazily
// initialized on first use if it has not been already.
func NewContext(app, context, appDesc, contextDesc string) *ContextHandle {
	Default() // force lazy init
	return &ContextHandle{
		App:     frame.NewAppId(app),
		Ctx:     frame.NewContextId(context),
		appDesc: appDesc,
		ctxDesc: contextDesc,
	}
}
