// Package reconcile drives a fiberx runtime from a declarative node tree.
// Components return Nodes; the Renderer mounts and calls every component
// node, unmounts fibers that are no longer declared, and flattens the
// result into text lines.
package reconcile

import (
	"errors"

	"github.com/comalice/fiberx"
)

// Node is one element of a rendered tree: Text, Group or a component
// created with Component.
type Node interface {
	isNode()
}

// Text is a leaf line of output.
type Text string

func (Text) isNode() {}

// Group lays its children out under an optional label. Children of a
// labeled group are indented one level.
type Group struct {
	Label    string
	Children []Node
}

func (Group) isNode() {}

// Column is an unlabeled Group.
func Column(children ...Node) Group {
	return Group{Children: children}
}

// Element is a component node. Its fiber id is the parent's id joined with
// Key, so Key must be unique among the components a fiber declares.
//
// A key identifies a fiber, not a function: when a key that is still
// mounted is declared with another function of the same props and result
// type, the fiber keeps its state and its original function. Use a new key
// to swap components.
type Element struct {
	Key string
	c   element
}

func (*Element) isNode() {}

type element interface {
	mount(rt *fiberx.Runtime, parent, id fiberx.FiberID) error
	call(rt *fiberx.Runtime, id fiberx.FiberID) (Node, error)
}

type typedElement[P any] struct {
	fn    fiberx.Component[P, Node]
	props P
}

// Component declares a child component rendered with props. If a fiber
// already exists under key, fn is ignored and the mounted function is
// called; see Element.
func Component[P any](key string, fn fiberx.Component[P, Node], props P) *Element {
	return &Element{Key: key, c: typedElement[P]{fn: fn, props: props}}
}

func (e typedElement[P]) mount(rt *fiberx.Runtime, parent, id fiberx.FiberID) error {
	err := fiberx.MountChild(rt, parent, id, e.fn)
	if errors.Is(err, fiberx.ErrFiberAlreadyExists) {
		return nil
	}
	return err
}

func (e typedElement[P]) call(rt *fiberx.Runtime, id fiberx.FiberID) (Node, error) {
	return fiberx.Call[P, Node](rt, id, e.props)
}

// ChildID is the fiber id of a component declared with key under parent.
func ChildID(parent fiberx.FiberID, key string) fiberx.FiberID {
	return parent + "/" + fiberx.FiberID(key)
}
