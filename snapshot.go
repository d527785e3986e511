package fiberx

import "time"

// TreeSnapshot is a serializable picture of a fiber tree. Slot values are
// rendered as text; a snapshot is for inspection and cannot be restored.
type TreeSnapshot struct {
	TreeID    string          `json:"treeID" yaml:"treeID"`
	Roots     []FiberID       `json:"roots" yaml:"roots"`
	Fibers    []FiberSnapshot `json:"fibers" yaml:"fibers"`
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp"`
}

// FiberSnapshot describes one fiber. Fibers are listed parents first, in
// mount order.
type FiberSnapshot struct {
	ID       FiberID        `json:"id" yaml:"id"`
	Parent   FiberID        `json:"parent,omitempty" yaml:"parent,omitempty"`
	Children []FiberID      `json:"children,omitempty" yaml:"children,omitempty"`
	Type     string         `json:"type" yaml:"type"`
	Slots    []SlotSnapshot `json:"slots,omitempty" yaml:"slots,omitempty"`
}

type SlotSnapshot struct {
	Index int    `json:"index" yaml:"index"`
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
}

// Snapshot captures the current tree under the name treeID.
func (rt *Runtime) Snapshot(treeID string) TreeSnapshot {
	snap := TreeSnapshot{
		TreeID:    treeID,
		Roots:     rt.Roots(),
		Fibers:    make([]FiberSnapshot, 0, len(rt.nodes)),
		Timestamp: time.Now(),
	}
	var walk func(id FiberID)
	walk = func(id FiberID) {
		n, ok := rt.nodes[id]
		if !ok {
			return
		}
		fs := FiberSnapshot{
			ID:       n.id,
			Parent:   n.parent,
			Children: append([]FiberID(nil), n.children...),
			Type:     n.fiber.signature(),
		}
		for i, s := range n.fiber.hooks().slots {
			fs.Slots = append(fs.Slots, SlotSnapshot{Index: i, Kind: s.kind.String(), Value: s.describe()})
		}
		snap.Fibers = append(snap.Fibers, fs)
		for _, child := range n.children {
			walk(child)
		}
	}
	for _, root := range snap.Roots {
		walk(root)
	}
	return snap
}

// Fiber returns the snapshot of id, if present.
func (s TreeSnapshot) Fiber(id FiberID) (FiberSnapshot, bool) {
	for _, f := range s.Fibers {
		if f.ID == id {
			return f, true
		}
	}
	return FiberSnapshot{}, false
}
