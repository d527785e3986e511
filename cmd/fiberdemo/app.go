package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/comalice/fiberx"
	"github.com/comalice/fiberx/reconcile"
)

type task struct {
	ID   int
	Text string
	Done bool
}

type appProps struct {
	Title string
	Theme string
}

var themeCtx = fiberx.CreateContext[string]()

// controls exposes the root's setters to the driver. It is refreshed on
// every render and used only from loop tasks.
type controls struct {
	setTasks fiberx.Setter[[]task]
	nextID   *fiberx.Ref[int]
}

func (c *controls) add(text string) {
	if c.nextID == nil {
		return
	}
	id := c.nextID.Current
	c.nextID.Current++
	c.setTasks.Set(func(prev []task) []task {
		return append(slices.Clone(prev), task{ID: id, Text: text})
	})
}

func (c *controls) toggle(id int) {
	c.setTasks.Set(func(prev []task) []task {
		next := slices.Clone(prev)
		for i := range next {
			if next[i].ID == id {
				next[i].Done = !next[i].Done
			}
		}
		return next
	})
}

func (c *controls) clearDone() {
	c.setTasks.Set(func(prev []task) []task {
		return slices.DeleteFunc(slices.Clone(prev), func(t task) bool { return t.Done })
	})
}

func todoApp(ctrl *controls) fiberx.Component[appProps, reconcile.Node] {
	return func(rt *fiberx.Runtime, p appProps) reconcile.Node {
		tasks, setTasks := fiberx.UseState(rt, func() []task { return nil })
		nextID := fiberx.UseRef(rt, 1)
		ctrl.setTasks, ctrl.nextID = setTasks, nextID

		fiberx.ProvideContext(rt, themeCtx, p.Theme)

		done := 0
		rows := make([]reconcile.Node, 0, len(tasks))
		for _, t := range tasks {
			if t.Done {
				done++
			}
			rows = append(rows, reconcile.Component(strconv.Itoa(t.ID), taskRow, t))
		}
		if len(rows) == 0 {
			rows = append(rows, reconcile.Text("(nothing to do)"))
		}
		return reconcile.Group{
			Label:    fmt.Sprintf("%s (%d/%d done)", p.Title, done, len(tasks)),
			Children: rows,
		}
	}
}

func taskRow(rt *fiberx.Runtime, t task) reconcile.Node {
	changes := fiberx.UseRef(rt, 0)
	fiberx.UseEffect(rt, func() { changes.Current++ }, fiberx.Deps{t.Done})
	theme := fiberx.UseContext(rt, themeCtx)

	mark := " "
	if t.Done {
		mark = "x"
	}
	return reconcile.Text(fmt.Sprintf("[%s] %s (%s, %d changes)", mark, t.Text, theme, changes.Current))
}

// scriptStep is the scripted user input for tick n (0-based): add every
// configured task, toggle each one, then clear the finished ones.
func scriptStep(tasks []string, n int) func(*controls) {
	switch {
	case n < len(tasks):
		text := tasks[n]
		return func(c *controls) { c.add(text) }
	case n < 2*len(tasks):
		id := n - len(tasks) + 1
		return func(c *controls) { c.toggle(id) }
	case n == 2*len(tasks):
		return (*controls).clearDone
	}
	return nil
}
