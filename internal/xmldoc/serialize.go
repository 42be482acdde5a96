package xmldoc

import (
	"encoding/xml"
	"strings"
)

// OuterXML serialises the document. Its length is the cheap size measure used
// for change detection, so the output only has to be deterministic.
func (d *Document) OuterXML() string {
	if d == nil || d.node == nil {
		return ""
	}
	var b strings.Builder
	for _, child := range d.node.Children {
		writeNode(&b, child)
	}
	return b.String()
}

// OuterXML serialises n and its subtree.
func (n *Node) OuterXML() string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindElement:
		b.WriteByte('<')
		b.WriteString(n.Name)
		for _, attr := range n.Attrs {
			writeNode(b, attr)
		}
		if len(n.Children) == 0 {
			b.WriteString(" />")
			return
		}
		b.WriteByte('>')
		for _, child := range n.Children {
			writeNode(b, child)
		}
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteByte('>')
	case KindAttribute:
		b.WriteByte(' ')
		b.WriteString(n.Name)
		b.WriteString(`="`)
		escape(b, n.Value)
		b.WriteByte('"')
	case KindText:
		escape(b, n.Value)
	case KindCDATA:
		b.WriteString("<![CDATA[")
		b.WriteString(n.Value)
		b.WriteString("]]>")
	case KindComment:
		b.WriteString("<!--")
		b.WriteString(n.Value)
		b.WriteString("-->")
	case KindProcInst:
		b.WriteString("<?")
		b.WriteString(n.Name)
		if n.Value != "" {
			b.WriteByte(' ')
			b.WriteString(n.Value)
		}
		b.WriteString("?>")
	case KindDirective:
		b.WriteString("<!")
		b.WriteString(n.Value)
		b.WriteByte('>')
	}
}

func escape(b *strings.Builder, s string) {
	// strings.Builder never returns a write error.
	_ = xml.EscapeText(b, []byte(s))
}
