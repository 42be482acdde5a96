// Package doctree turns document snapshots into the visual tree shown by the
// browser and keeps the path-key index used to find visual nodes again.
package doctree

import (
	"sort"

	"github.com/atomicstack/doctree/internal/xmldoc"
)

// Kind drives the icon and tooltip treatment of a visual node.
type Kind int

const (
	KindElement Kind = iota
	KindAttribute
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "tag"
	case KindAttribute:
		return "attribute"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Node is one row source of the tree widget.
type Node struct {
	Label    string
	Kind     Kind
	Tooltip  string
	Path     string
	Parent   *Node
	Children []*Node
	Expanded bool
}

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// Index maps path keys to the visual nodes of one build generation.
type Index struct {
	nodes map[string]*Node
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{nodes: make(map[string]*Node)}
}

// Lookup returns the node registered for path.
func (ix *Index) Lookup(path string) (*Node, bool) {
	if ix == nil || path == "" {
		return nil, false
	}
	n, ok := ix.nodes[path]
	return n, ok
}

// Len reports the number of registered nodes.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.nodes)
}

// Keys returns the registered path keys in sorted order.
func (ix *Index) Keys() []string {
	if ix == nil {
		return nil
	}
	keys := make([]string, 0, len(ix.nodes))
	for k := range ix.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (ix *Index) add(n *Node) {
	ix.nodes[n.Path] = n
}

// Build walks doc in document order and returns the top-level visual nodes
// together with a fresh index. A nil or empty document yields an empty tree.
func Build(doc *xmldoc.Document) ([]*Node, *Index) {
	index := NewIndex()
	if doc.Empty() {
		return nil, index
	}
	b := builder{index: index}
	return b.visit(nil, doc.Node(), ""), index
}

type builder struct {
	index *Index
}

func (b *builder) visit(parent *Node, src *xmldoc.Node, parentKey string) []*Node {
	steps := xmldoc.Steps(src)
	var out []*Node
	i := -1
	for member := range src.Members() {
		i++
		name, ok := xmldoc.Name(member)
		if !ok {
			continue
		}
		n := &Node{Label: name, Path: parentKey + "/" + steps[i], Parent: parent}
		b.index.add(n)
		switch xmldoc.Classify(member) {
		case xmldoc.StepElement:
			n.Kind = KindElement
			n.Children = b.visit(n, member, n.Path)
		case xmldoc.StepText:
			n.Kind = KindText
			n.Tooltip = member.Value
		default:
			n.Kind = KindAttribute
			n.Tooltip = member.Value
		}
		out = append(out, n)
	}
	return out
}

// Walk visits nodes depth first, parents before children. Returning false
// from fn stops the walk.
func Walk(nodes []*Node, fn func(*Node) bool) bool {
	for _, n := range nodes {
		if !fn(n) {
			return false
		}
		if !Walk(n.Children, fn) {
			return false
		}
	}
	return true
}

// CarryExpansion copies the expanded flag from prev onto the nodes of next
// that share a path key. Top-level nodes start expanded.
func CarryExpansion(prev *Index, roots []*Node) {
	for _, root := range roots {
		root.Expanded = true
	}
	if prev.Len() == 0 {
		return
	}
	Walk(roots, func(n *Node) bool {
		if old, ok := prev.Lookup(n.Path); ok && old.Expanded {
			n.Expanded = true
		}
		return true
	})
}
