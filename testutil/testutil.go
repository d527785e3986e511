// Package testutil holds helpers shared by fiberx tests.
package testutil

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/comalice/fiberx"
	"github.com/comalice/fiberx/internal/logging"
)

// NewRuntime returns a Runtime that logs through t.
func NewRuntime(t testing.TB, opts ...fiberx.Option) *fiberx.Runtime {
	t.Helper()
	logging.ConfigureTests()
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Str("test", t.Name()).Logger()
	return fiberx.NewRuntime(append([]fiberx.Option{fiberx.WithLogger(logger)}, opts...)...)
}

// RequireProtocolPanic runs fn and fails the test unless it panics with a
// *fiberx.ProtocolError, which is returned.
func RequireProtocolPanic(t testing.TB, fn func()) (perr *fiberx.ProtocolError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a protocol panic")
		var ok bool
		perr, ok = r.(*fiberx.ProtocolError)
		require.Truef(t, ok, "panic value %T (%v) is not a *fiberx.ProtocolError", r, r)
	}()
	fn()
	return nil
}

// Recorder collects lifecycle events in order.
type Recorder struct {
	Events []fiberx.LifecycleEvent
}

func (r *Recorder) Observe(evt fiberx.LifecycleEvent) {
	r.Events = append(r.Events, evt)
}

// Of returns the ids of recorded events of kind, in order.
func (r *Recorder) Of(kind fiberx.LifecycleKind) []fiberx.FiberID {
	var ids []fiberx.FiberID
	for _, evt := range r.Events {
		if evt.Kind == kind {
			ids = append(ids, evt.ID)
		}
	}
	return ids
}
