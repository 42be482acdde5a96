package state

import (
	"strings"

	"github.com/atomicstack/doctree/internal/doctree"
)

// Row is one visible line of the tree.
type Row struct {
	Node   *doctree.Node
	Depth  int
	Prefix string
}

// Tree holds the widget state of the document tree: the visible rows, the
// cursor and the viewport. Cursor is -1 while nothing is selected.
type Tree struct {
	Roots          []*doctree.Node
	Rows           []Row
	Cursor         int
	ViewportOffset int
	// Height is the number of rows the viewport shows; Select scrolls by it.
	Height int

	revision uint64
}

// NewTree returns an empty, unselected tree.
func NewTree() *Tree {
	return &Tree{Cursor: -1}
}

// Revision increases on every mutation of the visible state.
func (t *Tree) Revision() uint64 {
	return t.revision
}

func (t *Tree) touch() {
	t.revision++
}

// SetRoots replaces the tree contents. The previous selection is dropped.
func (t *Tree) SetRoots(roots []*doctree.Node) {
	t.Roots = roots
	t.Cursor = -1
	t.ViewportOffset = 0
	t.refresh()
	t.touch()
}

// Selected returns the node under the cursor, or nil.
func (t *Tree) Selected() *doctree.Node {
	return t.NodeAt(t.Cursor)
}

// NodeAt returns the node shown on row, or nil when row is out of range.
func (t *Tree) NodeAt(row int) *doctree.Node {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	return t.Rows[row].Node
}

// RowOf returns the row showing n, or -1.
func (t *Tree) RowOf(n *doctree.Node) int {
	if n == nil {
		return -1
	}
	for i, row := range t.Rows {
		if row.Node == n {
			return i
		}
	}
	return -1
}

// Select moves the cursor to n, expanding its ancestors and scrolling it
// into view. It reports whether anything changed.
func (t *Tree) Select(n *doctree.Node) bool {
	if n == nil {
		return false
	}
	expanded := false
	for p := n.Parent; p != nil; p = p.Parent {
		if !p.Expanded {
			p.Expanded = true
			expanded = true
		}
	}
	if expanded {
		t.refresh()
	}
	row := t.RowOf(n)
	if row < 0 {
		if expanded {
			t.touch()
		}
		return expanded
	}
	if row == t.Cursor && !expanded {
		return false
	}
	t.Cursor = row
	t.EnsureCursorVisible(t.Height)
	t.touch()
	return true
}

// refresh flattens the expanded part of the tree into rows and keeps the
// cursor on the same node when it is still visible.
func (t *Tree) refresh() {
	current := t.Selected()
	t.Rows = t.Rows[:0]
	for i, root := range t.Roots {
		t.appendVisible(root, nil, i == len(t.Roots)-1)
	}
	if current == nil {
		if t.Cursor >= len(t.Rows) {
			t.Cursor = len(t.Rows) - 1
		}
		return
	}
	if row := t.RowOf(current); row >= 0 {
		t.Cursor = row
		return
	}
	// The selected node was hidden by a collapse; fall back to its closest
	// visible ancestor.
	for p := current.Parent; p != nil; p = p.Parent {
		if row := t.RowOf(p); row >= 0 {
			t.Cursor = row
			return
		}
	}
	t.Cursor = -1
}

func (t *Tree) appendVisible(n *doctree.Node, lines []bool, last bool) {
	t.Rows = append(t.Rows, Row{Node: n, Depth: len(lines), Prefix: treePrefix(lines, last, n.Parent != nil)})
	if !n.Expanded {
		return
	}
	childLines := append(append([]bool(nil), lines...), !last)
	for i, child := range n.Children {
		t.appendVisible(child, childLines, i == len(n.Children)-1)
	}
}

// treePrefix draws the branch characters for a row. lines holds, per
// ancestor level below the top, whether a vertical line continues.
func treePrefix(lines []bool, last, nested bool) string {
	if !nested {
		return ""
	}
	var b strings.Builder
	for _, line := range lines[1:] {
		if line {
			b.WriteString("│   ")
		} else {
			b.WriteString("    ")
		}
	}
	if last {
		b.WriteString("└── ")
	} else {
		b.WriteString("├── ")
	}
	return b.String()
}

// Indicator returns the expand marker for n.
func Indicator(n *doctree.Node) string {
	if len(n.Children) == 0 {
		return "•"
	}
	if n.Expanded {
		return "▾"
	}
	return "▸"
}
