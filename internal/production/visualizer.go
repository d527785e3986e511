package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/comalice/fiberx"
)

// DefaultVisualizer renders tree snapshots for inspection.
type DefaultVisualizer struct {
	// ShowSlots adds each fiber's hook slots to its node label.
	ShowSlots bool
}

// ExportDOT generates Graphviz DOT source for the fiber tree. Fibers listed
// in highlight are filled.
func (v *DefaultVisualizer) ExportDOT(snap fiberx.TreeSnapshot, highlight ...fiberx.FiberID) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(snap.TreeID))
	buf.WriteString(`  rankdir=TB;
  node [shape=box, fontsize=10, style=rounded];
`)

	marked := make(map[fiberx.FiberID]bool, len(highlight))
	for _, id := range highlight {
		marked[id] = true
	}

	for _, f := range snap.Fibers {
		style := ""
		if marked[f.ID] {
			style = ` style="rounded,filled" fillcolor=lightgreen`
		}
		fmt.Fprintf(&buf, "  %s [label=%s%s];\n", quote(string(f.ID)), quote(v.label(f)), style)
	}
	for _, f := range snap.Fibers {
		for _, c := range f.Children {
			fmt.Fprintf(&buf, "  %s -> %s;\n", quote(string(f.ID)), quote(string(c)))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the snapshot to indented JSON.
func (v *DefaultVisualizer) ExportJSON(snap fiberx.TreeSnapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

func (v *DefaultVisualizer) label(f fiberx.FiberSnapshot) string {
	if !v.ShowSlots || len(f.Slots) == 0 {
		return string(f.ID)
	}
	lines := []string{string(f.ID)}
	for _, s := range f.Slots {
		lines = append(lines, fmt.Sprintf("%d %s: %s", s.Index, s.Kind, s.Value))
	}
	return strings.Join(lines, `\n`)
}

// quote produces a DOT double-quoted id. Backslash sequences such as \n are
// kept so labels can break lines.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
