package fiberx

import "fmt"

// Component is a function run inside a fiber. It receives the runtime so it
// can call hooks, and the props passed to Call.
type Component[P, R any] func(rt *Runtime, props P) R

// erasedFiber hides the prop and result types of a fiber from the tree.
// Call recovers the concrete type with a checked assertion.
type erasedFiber interface {
	hooks() *cursor
	signature() string
}

type fiber[P, R any] struct {
	fn  Component[P, R]
	cur cursor
}

func newFiber[P, R any](fn Component[P, R]) *fiber[P, R] {
	return &fiber[P, R]{fn: fn}
}

func (f *fiber[P, R]) hooks() *cursor {
	return &f.cur
}

func (f *fiber[P, R]) signature() string {
	return fmt.Sprintf("%T", f.fn)
}

func (f *fiber[P, R]) invoke(rt *Runtime, props P) R {
	f.cur.reset()
	return f.fn(rt, props)
}
