package reconcile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/comalice/fiberx"
)

// ErrDuplicateKey is returned when a fiber declares two components with
// the same key.
var ErrDuplicateKey = errors.New("duplicate component key")

// Output is the flattened result of a render, one entry per line.
type Output []string

func (o Output) String() string {
	return strings.Join(o, "\n")
}

// Renderer renders a root component and its declared descendants.
// Like the runtime it drives, a Renderer is confined to one goroutine.
type Renderer[P any] struct {
	rt     *fiberx.Runtime
	rootID fiberx.FiberID
	root   fiberx.Component[P, Node]
	indent string
	logger zerolog.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	indent string
	logger zerolog.Logger
}

// WithIndent sets the indentation added per labeled group (default two spaces).
func WithIndent(indent string) RendererOption {
	return func(o *rendererOptions) {
		o.indent = indent
	}
}

// WithLogger sets the logger used to report unmounted fibers.
func WithLogger(logger zerolog.Logger) RendererOption {
	return func(o *rendererOptions) {
		o.logger = logger
	}
}

// NewRenderer returns a Renderer for root mounted at rootID in rt.
func NewRenderer[P any](rt *fiberx.Runtime, rootID fiberx.FiberID, root fiberx.Component[P, Node], opts ...RendererOption) *Renderer[P] {
	o := rendererOptions{indent: "  ", logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer[P]{rt: rt, rootID: rootID, root: root, indent: o.indent, logger: o.logger}
}

// Runtime returns the runtime the renderer drives.
func (r *Renderer[P]) Runtime() *fiberx.Runtime {
	return r.rt
}

// RootID returns the fiber id of the root component.
func (r *Renderer[P]) RootID() fiberx.FiberID {
	return r.rootID
}

// Render runs one pass: the root is mounted if needed and called with
// props, then every declared component is mounted and called in document
// order. Fibers a component no longer declares are unmounted before its
// children render.
func (r *Renderer[P]) Render(props P) (Output, error) {
	tree, err := fiberx.Render(r.rt, r.rootID, r.root, props)
	if err != nil {
		return nil, fmt.Errorf("render root %q: %w", r.rootID, err)
	}
	var out Output
	if err := r.expand(r.rootID, tree, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Unmount tears down the whole tree rendered so far.
func (r *Renderer[P]) Unmount() {
	r.rt.Unmount(r.rootID)
}

// expand reconciles the children declared by the fiber at id and writes
// its node tree to out.
func (r *Renderer[P]) expand(id fiberx.FiberID, tree Node, prefix string, out *Output) error {
	declared, err := DeclaredChildren(id, tree)
	if err != nil {
		return err
	}
	removed, err := Reconcile(r.rt, id, declared)
	if err != nil {
		return err
	}
	if len(removed) > 0 {
		ids := make([]string, len(removed))
		for i, rm := range removed {
			ids[i] = string(rm)
		}
		r.logger.Debug().Str("fiber", string(id)).Strs("removed", ids).Msg("reconcile")
	}
	return r.write(id, tree, prefix, out)
}

func (r *Renderer[P]) write(parent fiberx.FiberID, n Node, prefix string, out *Output) error {
	switch n := n.(type) {
	case nil:
		return nil
	case Text:
		*out = append(*out, prefix+string(n))
	case Group:
		childPrefix := prefix
		if n.Label != "" {
			*out = append(*out, prefix+n.Label)
			childPrefix += r.indent
		}
		for _, c := range n.Children {
			if err := r.write(parent, c, childPrefix, out); err != nil {
				return err
			}
		}
	case *Element:
		id := ChildID(parent, n.Key)
		if err := n.c.mount(r.rt, parent, id); err != nil {
			return fmt.Errorf("mount %q: %w", id, err)
		}
		child, err := n.c.call(r.rt, id)
		if err != nil {
			return fmt.Errorf("call %q: %w", id, err)
		}
		return r.expand(id, child, prefix, out)
	default:
		return fmt.Errorf("unknown node type %T", n)
	}
	return nil
}

// DeclaredChildren lists the fiber ids of the components in tree, in
// document order, without descending into the components themselves.
func DeclaredChildren(parent fiberx.FiberID, tree Node) ([]fiberx.FiberID, error) {
	var ids []fiberx.FiberID
	var walk func(n Node) error
	walk = func(n Node) error {
		switch n := n.(type) {
		case Group:
			for _, c := range n.Children {
				if err := walk(c); err != nil {
					return err
				}
			}
		case *Element:
			id := ChildID(parent, n.Key)
			if slices.Contains(ids, id) {
				return fmt.Errorf("%w %q under %q", ErrDuplicateKey, n.Key, parent)
			}
			ids = append(ids, id)
		}
		return nil
	}
	if err := walk(tree); err != nil {
		return nil, err
	}
	return ids, nil
}

// Reconcile unmounts every child of parent that is not in declared and
// returns the removed ids in their previous order. This is the diff step a
// driver runs after each call.
func Reconcile(rt *fiberx.Runtime, parent fiberx.FiberID, declared []fiberx.FiberID) ([]fiberx.FiberID, error) {
	prev, err := rt.ChildrenOf(parent)
	if err != nil {
		return nil, err
	}
	keep := make(map[fiberx.FiberID]struct{}, len(declared))
	for _, id := range declared {
		keep[id] = struct{}{}
	}
	var removed []fiberx.FiberID
	for _, id := range prev {
		if _, ok := keep[id]; ok {
			continue
		}
		rt.Unmount(id)
		removed = append(removed, id)
	}
	return removed, nil
}
