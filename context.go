package fiberx

import (
	"fmt"
	"sync/atomic"
)

var nextContextID atomic.Uint64

// Context addresses a value provided by an ancestor fiber. Contexts are
// compared by identity: two CreateContext calls never collide, whatever T.
type Context[T any] struct {
	id uint64
}

// CreateContext allocates a new context handle.
func CreateContext[T any]() Context[T] {
	return Context[T]{id: nextContextID.Add(1)}
}

// ID returns the process-wide id of the handle.
func (c Context[T]) ID() uint64 {
	return c.id
}

type providedContext[T any] struct {
	ctxID uint64
	value T
}

func (p *providedContext[T]) describe() string {
	return fmt.Sprintf("ctx#%d=%v", p.ctxID, p.value)
}

// ProvideContext makes value visible to UseContext in the executing fiber
// and its descendants. It occupies a hook slot like any other hook, and
// must be given the same handle at this position on every call.
func ProvideContext[T any](rt *Runtime, ctx Context[T], value T) {
	n, c, i, fresh := rt.advance(kindContext, 1)
	if fresh {
		c.slots = append(c.slots, slot{kind: kindContext, value: &providedContext[T]{ctxID: ctx.id, value: value}})
		return
	}
	p, ok := c.slots[i].value.(*providedContext[T])
	if !ok || p.ctxID != ctx.id {
		panic(protocolError(1, "ProvideContext", n, i, "context handle changed between calls (slot holds %s)", c.slots[i].describe()))
	}
	p.value = value
}

// UseContext returns the value of the nearest provider of ctx, looking at
// the executing fiber first and then its ancestors in the fiber tree. A
// fiber providing the same context twice resolves to the later provider.
// It panics with a *ProtocolError when nothing provides ctx.
//
// UseContext does not occupy a hook slot.
func UseContext[T any](rt *Runtime, ctx Context[T]) T {
	n := rt.activeNode("UseContext", 1)
	for cur := n; cur != nil; cur = rt.parentOf(cur) {
		slots := cur.fiber.hooks().slots
		for j := len(slots) - 1; j >= 0; j-- {
			if slots[j].kind != kindContext {
				continue
			}
			if p, ok := slots[j].value.(*providedContext[T]); ok && p.ctxID == ctx.id {
				return p.value
			}
		}
	}
	panic(protocolError(1, "UseContext", n, -1, "no ancestor provides context #%d (%T)", ctx.id, ctx))
}
