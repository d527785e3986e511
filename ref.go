package fiberx

import "fmt"

// Ref is a mutable cell shared between a fiber and anyone holding the
// pointer. UseRef returns the same *Ref on every call.
type Ref[S any] struct {
	Current S
}

func (r *Ref[S]) describe() string {
	return fmt.Sprintf("&%v", r.Current)
}

// UseRef returns the fiber's Ref for this position, seeding it with
// initial on the first call. Writes to Current persist across calls.
func UseRef[S any](rt *Runtime, initial S) *Ref[S] {
	n, c, i, fresh := rt.advance(kindRef, 1)
	if fresh {
		r := &Ref[S]{Current: initial}
		c.slots = append(c.slots, slot{kind: kindRef, value: r})
		return r
	}
	r, ok := c.slots[i].value.(*Ref[S])
	if !ok {
		panic(protocolError(1, "UseRef", n, i, "slot holds %T, not %T", c.slots[i].value, r))
	}
	return r
}
