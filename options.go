package fiberx

import "github.com/rs/zerolog"

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for mount, unmount and call tracing.
// The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithObserver registers an Observer for fiber lifecycle events.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		rt.observer = o
	}
}

// WithInitialCapacity sizes the fiber map for n fibers.
func WithInitialCapacity(n int) Option {
	return func(rt *Runtime) {
		rt.nodes = make(map[FiberID]*node, n)
	}
}
