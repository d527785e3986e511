// Package realtime drives a fiberx tree from a fixed-rate tick loop.
//
// A fiberx.Runtime never re-renders on its own and must not be touched from
// more than one goroutine at a time. Loop owns the runtime: other
// goroutines hand it work as tasks, and every tick the loop
//
//  1. drains the queued tasks (typically Setter calls),
//  2. runs them in deterministic order, and
//  3. renders the root component through a reconcile.Renderer.
//
// # Example Usage
//
//	rt := fiberx.NewRuntime()
//	r := reconcile.NewRenderer(rt, "app", App)
//	loop := realtime.NewLoop(r, AppProps{}, realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//	}, func(f realtime.Frame) { fmt.Println(f.Output) })
//	loop.Start(ctx)
//	loop.Post(func(*fiberx.Runtime) { setCount.Replace(3) })
//
// # Task Ordering Guarantees
//
// Tasks queued before a tick are run in that tick, ordered by
//  1. Priority (higher first)
//  2. Sequence number (FIFO for equal priority)
//
// Given the same sequence of Post calls, a tree therefore always evolves
// the same way regardless of goroutine scheduling.
//
// # Failures
//
// A task or render that panics (for instance with a *fiberx.ProtocolError)
// is recovered and logged; the render failure is reported in Frame.Err and
// the loop keeps ticking.
package realtime
