package fiberx

import "fmt"

type stateCell[S any] struct {
	value S
}

func (c *stateCell[S]) describe() string {
	return fmt.Sprintf("%v", c.value)
}

// UseState declares a piece of state that persists across calls of the
// executing fiber. init runs once, on the first call that reaches this
// hook; later calls return the stored value.
//
// Hooks are identified by call order, so UseState must be reached in the
// same position on every call. Breaking that rule panics with a
// *ProtocolError.
func UseState[S any](rt *Runtime, init func() S) (S, Setter[S]) {
	n, c, i, fresh := rt.advance(kindState, 1)
	if fresh {
		c.slots = append(c.slots, slot{kind: kindState, value: &stateCell[S]{value: init()}})
	}
	cell, ok := c.slots[i].value.(*stateCell[S])
	if !ok {
		panic(protocolError(1, "UseState", n, i, "slot holds %T, not state of type %T", c.slots[i].value, *new(S)))
	}
	return cell.value, Setter[S]{rt: rt, id: n.id, serial: n.serial, index: i}
}

// Setter updates one UseState slot. It holds the fiber's address rather
// than the slot itself, so it stays safe to use after the call that
// produced it has returned. Once the fiber is unmounted the setter does
// nothing, even if another fiber is later mounted at the same id.
//
// Setting state never re-runs the fiber; the new value is observed on the
// next Call.
type Setter[S any] struct {
	rt     *Runtime
	id     FiberID
	serial uint64
	index  int
}

// Set replaces the state with reducer applied to the current value.
func (s Setter[S]) Set(reducer func(S) S) {
	cell := s.resolve()
	if cell == nil {
		return
	}
	cell.value = reducer(cell.value)
}

// Replace stores v as the new state.
func (s Setter[S]) Replace(v S) {
	s.Set(func(S) S { return v })
}

// Alive reports whether the slot the setter addresses still exists.
func (s Setter[S]) Alive() bool {
	return s.resolve() != nil
}

// Fiber returns the id of the fiber owning the state.
func (s Setter[S]) Fiber() FiberID {
	return s.id
}

func (s Setter[S]) resolve() *stateCell[S] {
	if s.rt == nil {
		return nil
	}
	n, ok := s.rt.nodes[s.id]
	if !ok || n.serial != s.serial {
		s.rt.logger.Debug().Str("fiber", string(s.id)).Int("slot", s.index).Msg("setter target unmounted")
		return nil
	}
	c := n.fiber.hooks()
	if s.index >= len(c.slots) {
		return nil
	}
	cell, _ := c.slots[s.index].value.(*stateCell[S])
	return cell
}
