package state

import "github.com/atomicstack/doctree/internal/doctree"

// Expand opens the node under the cursor.
func (t *Tree) Expand() bool {
	n := t.Selected()
	if n == nil || len(n.Children) == 0 || n.Expanded {
		return false
	}
	return t.setExpanded(n, true)
}

// Collapse closes the node under the cursor. On a leaf or an already closed
// node the cursor moves to the parent instead.
func (t *Tree) Collapse() bool {
	n := t.Selected()
	if n == nil {
		return false
	}
	if n.Expanded && len(n.Children) > 0 {
		return t.setExpanded(n, false)
	}
	if n.Parent == nil {
		return false
	}
	return t.MoveCursorTo(t.RowOf(n.Parent))
}

// Toggle flips the expansion of the node under the cursor.
func (t *Tree) Toggle() bool {
	n := t.Selected()
	if n == nil || len(n.Children) == 0 {
		return false
	}
	return t.setExpanded(n, !n.Expanded)
}

// ExpandAll opens every node.
func (t *Tree) ExpandAll() bool {
	changed := false
	doctree.Walk(t.Roots, func(n *doctree.Node) bool {
		if len(n.Children) > 0 && !n.Expanded {
			n.Expanded = true
			changed = true
		}
		return true
	})
	if changed {
		t.refresh()
		t.touch()
	}
	return changed
}

func (t *Tree) setExpanded(n *doctree.Node, expanded bool) bool {
	n.Expanded = expanded
	t.refresh()
	t.touch()
	return true
}
