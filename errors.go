package fiberx

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// Structural errors returned by tree operations. Callers match them with
// errors.Is; the offending id is available through *FiberError.
var (
	ErrFiberAlreadyExists = errors.New("fiber already exists")
	ErrFiberDoesntExist   = errors.New("fiber doesn't exist")
	ErrFiberTypeMismatch  = errors.New("fiber has a different type")
	ErrParentDoesNotExist = errors.New("parent fiber doesn't exist")
)

// FiberError reports a recoverable failure of a tree operation.
// For ErrParentDoesNotExist, ID is the missing parent.
type FiberError struct {
	Op  string
	ID  FiberID
	Err error
}

func (e *FiberError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.ID, e.Err)
}

func (e *FiberError) Unwrap() error {
	return e.Err
}

// ProtocolError is the panic value raised when a component breaks the hook
// protocol: a hook called with no active fiber, hooks called in a different
// order or kind than on the previous invocation, or a context that no
// ancestor provides. These are defects in the component, never returned as
// values.
type ProtocolError struct {
	Hook     string
	Fiber    FiberID // empty when no fiber was active
	Index    int     // -1 when the failure is not tied to a slot
	Location string  // file:line of the offending hook call
	Msg      string
}

func (e *ProtocolError) Error() string {
	if e.Fiber == "" {
		return fmt.Sprintf("%s: %s (%s)", e.Hook, e.Msg, e.Location)
	}
	if e.Index < 0 {
		return fmt.Sprintf("%s in fiber %q: %s (%s)", e.Hook, e.Fiber, e.Msg, e.Location)
	}
	return fmt.Sprintf("%s in fiber %q, slot %d: %s (%s)", e.Hook, e.Fiber, e.Index, e.Msg, e.Location)
}

// protocolError builds a ProtocolError whose Location is skip frames above
// the function calling protocolError.
func protocolError(skip int, hook string, n *node, index int, format string, args ...any) *ProtocolError {
	e := &ProtocolError{
		Hook:     hook,
		Index:    index,
		Location: callerLine(skip + 1),
		Msg:      fmt.Sprintf(format, args...),
	}
	if n != nil {
		e.Fiber = n.id
	}
	return e
}

func callerLine(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown location"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
