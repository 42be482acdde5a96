// Package xmldoc holds the immutable document snapshots rendered by the tree
// view, together with the naming and path-key rules that tie a document node
// to its visual counterpart.
package xmldoc

import (
	"iter"
	"strings"
)

// Kind classifies a document node.
type Kind int

const (
	KindDocument Kind = iota
	KindElement
	KindAttribute
	KindText
	KindCDATA
	KindComment
	KindProcInst
	KindDirective
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindAttribute:
		return "attribute"
	case KindText:
		return "text"
	case KindCDATA:
		return "cdata"
	case KindComment:
		return "comment"
	case KindProcInst:
		return "procinst"
	case KindDirective:
		return "directive"
	default:
		return "unknown"
	}
}

// Node is one node of a document snapshot. Attribute nodes live in Attrs of
// their owning element; everything else lives in Children.
type Node struct {
	Kind     Kind
	Name     string
	Value    string
	Attrs    []*Node
	Children []*Node
	Parent   *Node
}

// Members yields the attributes of n followed by its children, in document
// order.
func (n *Node) Members() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if n == nil {
			return
		}
		for _, attr := range n.Attrs {
			if !yield(attr) {
				return
			}
		}
		for _, child := range n.Children {
			if !yield(child) {
				return
			}
		}
	}
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Document is an immutable snapshot. A changed document is always a new
// *Document; callers may rely on pointer identity meaning "unchanged".
type Document struct {
	node *Node
}

// NewDocument wraps the supplied top-level nodes into a document, fixing up
// parent links.
func NewDocument(children ...*Node) *Document {
	root := &Node{Kind: KindDocument}
	for _, child := range children {
		if child == nil {
			continue
		}
		root.Children = append(root.Children, child)
	}
	link(root)
	return &Document{node: root}
}

func link(n *Node) {
	for _, attr := range n.Attrs {
		attr.Parent = n
	}
	for _, child := range n.Children {
		child.Parent = n
		link(child)
	}
}

// Node returns the synthetic document node whose children are the top-level
// nodes of the document.
func (d *Document) Node() *Node {
	if d == nil {
		return nil
	}
	return d.node
}

// Root returns the document element, or nil when there is none.
func (d *Document) Root() *Node {
	if d == nil || d.node == nil {
		return nil
	}
	for _, child := range d.node.Children {
		if child.Kind == KindElement {
			return child
		}
	}
	return nil
}

// Empty reports whether the document has no renderable content.
func (d *Document) Empty() bool {
	return d == nil || d.node == nil || len(d.node.Children) == 0
}

// ElementCount returns the number of element nodes below the document node.
func (d *Document) ElementCount() int {
	if d == nil {
		return 0
	}
	return countElements(d.node)
}

func countElements(n *Node) int {
	total := 0
	for _, child := range n.Children {
		if child.Kind == KindElement {
			total++
			total += countElements(child)
		}
	}
	return total
}

// Element builds an element node. Attribute and child parent links are set
// when the node is wrapped by NewDocument.
func Element(name string, members ...*Node) *Node {
	n := &Node{Kind: KindElement, Name: name}
	for _, m := range members {
		if m == nil {
			continue
		}
		if m.Kind == KindAttribute {
			n.Attrs = append(n.Attrs, m)
			continue
		}
		n.Children = append(n.Children, m)
	}
	return n
}

// Attribute builds an attribute node.
func Attribute(name, value string) *Node {
	return &Node{Kind: KindAttribute, Name: name, Value: value}
}

// Text builds a text node.
func Text(value string) *Node {
	return &Node{Kind: KindText, Value: value}
}

// CDATA builds a CDATA section node.
func CDATA(value string) *Node {
	return &Node{Kind: KindCDATA, Value: value}
}

// Comment builds a comment node.
func Comment(value string) *Node {
	return &Node{Kind: KindComment, Value: value}
}

// InnerText returns the character data of n and its descendants in document
// order. For attribute and text nodes it is their value.
func (n *Node) InnerText() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindAttribute, KindText, KindCDATA:
		return n.Value
	case KindElement, KindDocument:
		var b strings.Builder
		collectText(&b, n)
		return b.String()
	default:
		return ""
	}
}

func collectText(b *strings.Builder, n *Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case KindText, KindCDATA:
			b.WriteString(c.Value)
		case KindElement:
			collectText(b, c)
		}
	}
}
