package fiberx

import (
	"slices"

	"github.com/rs/zerolog"
)

// FiberID addresses a fiber within one Runtime. Reconcilers usually build
// path-like ids such as "app/header".
type FiberID string

type node struct {
	id        FiberID
	parent    FiberID
	hasParent bool
	children  []FiberID
	fiber     erasedFiber
	// serial distinguishes successive mounts at the same id.
	serial uint64
}

// Runtime owns a fiber tree and the stack of fibers currently executing.
// It is not safe for concurrent use; confine each Runtime to one goroutine
// at a time. Independent runtimes never share slots.
type Runtime struct {
	nodes    map[FiberID]*node
	roots    []FiberID
	active   []*node
	serial   uint64
	logger   zerolog.Logger
	observer Observer
}

// NewRuntime creates an empty fiber tree.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		nodes:  make(map[FiberID]*node),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// MountRoot registers fn under id with no parent.
func MountRoot[P, R any](rt *Runtime, id FiberID, fn Component[P, R]) error {
	return rt.mount(nil, id, newFiber(fn))
}

// MountChild registers fn under id as the last child of parent. The parent
// must already be mounted.
func MountChild[P, R any](rt *Runtime, parent, id FiberID, fn Component[P, R]) error {
	return rt.mount(&parent, id, newFiber(fn))
}

func (rt *Runtime) mount(parent *FiberID, id FiberID, f erasedFiber) error {
	if _, exists := rt.nodes[id]; exists {
		return &FiberError{Op: "mount", ID: id, Err: ErrFiberAlreadyExists}
	}
	var p *node
	if parent != nil {
		p = rt.nodes[*parent]
		if p == nil {
			return &FiberError{Op: "mount", ID: *parent, Err: ErrParentDoesNotExist}
		}
	}

	rt.serial++
	n := &node{id: id, fiber: f, serial: rt.serial}
	if p != nil {
		n.parent, n.hasParent = p.id, true
		p.children = append(p.children, id)
	} else {
		rt.roots = append(rt.roots, id)
	}
	rt.nodes[id] = n

	rt.logger.Debug().Str("fiber", string(id)).Str("parent", string(n.parent)).
		Str("type", f.signature()).Msg("mount")
	rt.notify(LifecycleEvent{Kind: Mounted, ID: id, Parent: n.parent, Serial: n.serial})
	return nil
}

// Unmount removes id and all of its descendants, children first. Unmounting
// an id that is not mounted is a no-op.
func (rt *Runtime) Unmount(id FiberID) {
	n, ok := rt.nodes[id]
	if !ok {
		return
	}
	// Unmounting a child edits n.children, so walk a copy.
	for _, child := range slices.Clone(n.children) {
		rt.Unmount(child)
	}

	if n.hasParent {
		if p, ok := rt.nodes[n.parent]; ok {
			p.children = slices.DeleteFunc(p.children, func(c FiberID) bool { return c == id })
		}
	} else {
		rt.roots = slices.DeleteFunc(rt.roots, func(c FiberID) bool { return c == id })
	}
	delete(rt.nodes, id)

	rt.logger.Debug().Str("fiber", string(id)).Msg("unmount")
	rt.notify(LifecycleEvent{Kind: Unmounted, ID: id, Parent: n.parent, Serial: n.serial})
}

// Call runs the component mounted at id with props and returns its result.
// The component may call, mount and unmount other fibers while it runs.
func Call[P, R any](rt *Runtime, id FiberID, props P) (R, error) {
	var zero R
	n, ok := rt.nodes[id]
	if !ok {
		return zero, &FiberError{Op: "call", ID: id, Err: ErrFiberDoesntExist}
	}
	f, ok := n.fiber.(*fiber[P, R])
	if !ok {
		rt.logger.Debug().Str("fiber", string(id)).Str("mounted", n.fiber.signature()).
			Str("requested", newFiber[P, R](nil).signature()).Msg("call type mismatch")
		return zero, &FiberError{Op: "call", ID: id, Err: ErrFiberTypeMismatch}
	}

	rt.logger.Trace().Str("fiber", string(id)).Int("depth", len(rt.active)).Msg("call")
	rt.push(n)
	defer rt.pop()
	out := f.invoke(rt, props)

	rt.notify(LifecycleEvent{Kind: Called, ID: id, Parent: n.parent, Serial: n.serial})
	return out, nil
}

// Render mounts fn as a root at id if nothing is mounted there yet, then
// calls it.
func Render[P, R any](rt *Runtime, id FiberID, fn Component[P, R], props P) (R, error) {
	if !rt.Has(id) {
		if err := MountRoot(rt, id, fn); err != nil {
			var zero R
			return zero, err
		}
	}
	return Call[P, R](rt, id, props)
}

// RenderChild is Render for a fiber under parent.
func RenderChild[P, R any](rt *Runtime, parent, id FiberID, fn Component[P, R], props P) (R, error) {
	if !rt.Has(id) {
		if err := MountChild(rt, parent, id, fn); err != nil {
			var zero R
			return zero, err
		}
	}
	return Call[P, R](rt, id, props)
}

// ChildrenOf returns the children of id in mount order.
func (rt *Runtime) ChildrenOf(id FiberID) ([]FiberID, error) {
	n, ok := rt.nodes[id]
	if !ok {
		return nil, &FiberError{Op: "children", ID: id, Err: ErrFiberDoesntExist}
	}
	return slices.Clone(n.children), nil
}

// ParentOf returns the parent of id. ok is false for a root fiber.
func (rt *Runtime) ParentOf(id FiberID) (parent FiberID, ok bool, err error) {
	n, exists := rt.nodes[id]
	if !exists {
		return "", false, &FiberError{Op: "parent", ID: id, Err: ErrFiberDoesntExist}
	}
	return n.parent, n.hasParent, nil
}

// Has reports whether id is mounted.
func (rt *Runtime) Has(id FiberID) bool {
	_, ok := rt.nodes[id]
	return ok
}

// Len returns the number of mounted fibers.
func (rt *Runtime) Len() int {
	return len(rt.nodes)
}

// Roots returns the parentless fibers in mount order.
func (rt *Runtime) Roots() []FiberID {
	return slices.Clone(rt.roots)
}

// Current returns the fiber whose component is executing, if any.
func (rt *Runtime) Current() (FiberID, bool) {
	if len(rt.active) == 0 {
		return "", false
	}
	return rt.active[len(rt.active)-1].id, true
}

func (rt *Runtime) push(n *node) {
	rt.active = append(rt.active, n)
}

func (rt *Runtime) pop() {
	rt.active[len(rt.active)-1] = nil
	rt.active = rt.active[:len(rt.active)-1]
}

func (rt *Runtime) parentOf(n *node) *node {
	if !n.hasParent {
		return nil
	}
	return rt.nodes[n.parent]
}

func (rt *Runtime) notify(evt LifecycleEvent) {
	if rt.observer != nil {
		rt.observer.Observe(evt)
	}
}

// activeNode returns the executing fiber or panics. skip counts frames
// between activeNode's caller and the user's hook call.
func (rt *Runtime) activeNode(hook string, skip int) *node {
	if rt == nil || len(rt.active) == 0 {
		panic(protocolError(skip+1, hook, nil, -1, "hook used outside an active invocation"))
	}
	return rt.active[len(rt.active)-1]
}

// advance claims the next slot of the executing fiber for a hook of kind.
// fresh is true when the slot does not exist yet and must be appended by
// the caller. skip is as for activeNode.
func (rt *Runtime) advance(kind slotKind, skip int) (n *node, c *cursor, i int, fresh bool) {
	n = rt.activeNode(kind.hookName(), skip+1)
	c = n.fiber.hooks()
	i = c.index
	c.index++
	if i >= len(c.slots) {
		return n, c, i, true
	}
	if got := c.slots[i].kind; got != kind {
		panic(protocolError(skip+1, kind.hookName(), n, i,
			"expected %s hook but the slot holds %s; hooks must be called in the same order on every call",
			kind, got))
	}
	return n, c, i, false
}
