// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"strconv"

	"github.com/comalice/fiberx"
	"github.com/comalice/fiberx/reconcile"
)

// TreeProps shapes the trees built by WideTree and DeepTree.
type TreeProps struct {
	Width int
	Depth int
}

// leaf keeps one of each slot kind so every hook is on the hot path.
func leaf(rt *fiberx.Runtime, i int) reconcile.Node {
	n, _ := fiberx.UseState(rt, func() int { return i })
	renders := fiberx.UseRef(rt, 0)
	renders.Current++
	fiberx.UseEffect(rt, func() {}, fiberx.Deps{n})
	return reconcile.Text(strconv.Itoa(n))
}

// WideTree renders Width leaves under a single root.
func WideTree(rt *fiberx.Runtime, p TreeProps) reconcile.Node {
	children := make([]reconcile.Node, p.Width)
	for i := range children {
		children[i] = reconcile.Component(strconv.Itoa(i), leaf, i)
	}
	return reconcile.Column(children...)
}

// DeepTree nests Depth levels, each providing a context its leaf reads.
func DeepTree(rt *fiberx.Runtime, p TreeProps) reconcile.Node {
	fiberx.ProvideContext(rt, depthCtx, p.Depth)
	if p.Depth <= 0 {
		return reconcile.Text(fmt.Sprint(fiberx.UseContext(rt, depthCtx)))
	}
	return reconcile.Component("d", DeepTree, TreeProps{Depth: p.Depth - 1})
}

var depthCtx = fiberx.CreateContext[int]()

// NewRenderer returns a renderer for root on a fresh, quiet runtime.
func NewRenderer(root fiberx.Component[TreeProps, reconcile.Node]) *reconcile.Renderer[TreeProps] {
	return reconcile.NewRenderer(fiberx.NewRuntime(), "bench", root)
}
