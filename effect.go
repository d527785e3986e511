package fiberx

import "fmt"

type effectMemo struct {
	deps Deps
}

func (m *effectMemo) describe() string {
	return fmt.Sprintf("deps%v", []any(m.deps))
}

// UseEffect runs effect on the first call that reaches it and again on
// every later call whose deps differ from those of the previous run.
// effect runs synchronously, before UseEffect returns. deps is copied
// deeply, so data the caller mutates in place is compared against its
// earlier contents.
func UseEffect(rt *Runtime, effect func(), deps Deps) {
	n, c, i, fresh := rt.advance(kindEffect, 1)
	if fresh {
		c.slots = append(c.slots, slot{kind: kindEffect, value: &effectMemo{deps: copyDeps(deps)}})
		effect()
		return
	}
	memo, ok := c.slots[i].value.(*effectMemo)
	if !ok {
		panic(protocolError(1, "UseEffect", n, i, "slot holds %T, not effect dependencies", c.slots[i].value))
	}
	if !depsChanged(memo.deps, deps) {
		return
	}
	effect()
	memo.deps = copyDeps(deps)
}
