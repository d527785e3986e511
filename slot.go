package fiberx

import "fmt"

type slotKind uint8

const (
	kindState slotKind = iota + 1
	kindEffect
	kindRef
	kindContext
)

func (k slotKind) String() string {
	switch k {
	case kindState:
		return "state"
	case kindEffect:
		return "effect"
	case kindRef:
		return "ref"
	case kindContext:
		return "context"
	}
	return fmt.Sprintf("slotKind(%d)", uint8(k))
}

// hookName is the exported function that owns slots of kind k.
func (k slotKind) hookName() string {
	switch k {
	case kindState:
		return "UseState"
	case kindEffect:
		return "UseEffect"
	case kindRef:
		return "UseRef"
	case kindContext:
		return "ProvideContext"
	}
	return k.String()
}

// slot is one persisted hook. The kind tag is checked before value is
// asserted to the hook's concrete payload type.
type slot struct {
	kind  slotKind
	value any
}

// describer is implemented by slot payloads that can render themselves
// for snapshots.
type describer interface {
	describe() string
}

func (s slot) describe() string {
	if d, ok := s.value.(describer); ok {
		return d.describe()
	}
	return fmt.Sprint(s.value)
}

// cursor is the ordered slot list of one fiber plus the position of the
// next hook call. index is reset to zero at the start of every invocation.
type cursor struct {
	slots []slot
	index int
}

func (c *cursor) reset() {
	c.index = 0
}
