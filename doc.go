// Package fiberx is a retained-state runtime for functions that are called
// over and over, such as UI components. Each function runs inside a fiber:
// a node of a tree that keeps an ordered list of hook slots between calls.
//
// # Fibers
//
// A driver mounts a component once and then calls it on every update:
//
//	rt := fiberx.NewRuntime()
//	_ = fiberx.MountRoot(rt, "counter", Counter)
//	n, _ := fiberx.Call[struct{}, int](rt, "counter", struct{}{})
//
// Unmount removes a fiber and its descendants. Tree operations report
// structural problems (ErrFiberAlreadyExists, ErrFiberDoesntExist,
// ErrFiberTypeMismatch, ErrParentDoesNotExist) as errors.
//
// # Hooks
//
// Inside a component, hooks read and extend the fiber's slot list:
//
//	func Counter(rt *fiberx.Runtime, _ struct{}) int {
//		count, set := fiberx.UseState(rt, func() int { return 0 })
//		fiberx.UseEffect(rt, func() { log.Println("count", count) }, fiberx.Deps{count})
//		set.Set(func(n int) int { return n + 1 })
//		return count
//	}
//
// Slots are identified by call order. A component must call the same
// hooks in the same order every time; calling hooks conditionally, outside
// a component, or reading a context nobody provides panics with a
// *ProtocolError.
//
// # Scheduling
//
// The runtime never re-runs a fiber on its own. A Setter records the new
// value and the driver decides when to call the fiber again. See the
// reconcile and realtime packages for a driver.
package fiberx
