package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var cdataOpen = []byte("<![CDATA[")

// Parse reads an XML document. Whitespace-only character data is dropped, in
// line with a non whitespace-preserving DOM load; CDATA sections are kept
// as they are.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xml: %w", err)
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	root := &Node{Kind: KindDocument}
	stack := []*Node{root}
	for {
		start := dec.InputOffset()
		tok, err := dec.RawToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		parent := stack[len(stack)-1]
		switch tok := tok.(type) {
		case xml.StartElement:
			el := &Node{Kind: KindElement, Name: qualified(tok.Name), Parent: parent}
			for _, a := range tok.Attr {
				el.Attrs = append(el.Attrs, &Node{Kind: KindAttribute, Name: qualified(a.Name), Value: a.Value, Parent: el})
			}
			parent.Children = append(parent.Children, el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) < 2 || parent.Name != qualified(tok.Name) {
				return nil, fmt.Errorf("parse xml: unexpected end element </%s>", qualified(tok.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			// encoding/xml reports CDATA sections as plain character data;
			// the raw input tells them apart.
			kind := KindText
			if bytes.HasPrefix(data[start:dec.InputOffset()], cdataOpen) {
				kind = KindCDATA
			} else if len(bytes.TrimSpace(tok)) == 0 {
				continue
			}
			if parent.Kind == KindDocument {
				return nil, fmt.Errorf("parse xml: character data outside the document element")
			}
			parent.Children = append(parent.Children, &Node{Kind: kind, Value: string(tok), Parent: parent})
		case xml.Comment:
			parent.Children = append(parent.Children, &Node{Kind: KindComment, Value: string(tok), Parent: parent})
		case xml.ProcInst:
			if tok.Target == "xml" {
				continue
			}
			parent.Children = append(parent.Children, &Node{Kind: KindProcInst, Name: tok.Target, Value: string(tok.Inst), Parent: parent})
		case xml.Directive:
			parent.Children = append(parent.Children, &Node{Kind: KindDirective, Value: string(tok), Parent: parent})
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("parse xml: unclosed element <%s>", stack[len(stack)-1].Name)
	}
	return &Document{node: root}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// ParseHTML reads an HTML document and converts it to the same node model.
// The HTML parser always synthesises html/head/body, so the result has a
// single document element.
func ParseHTML(r io.Reader) (*Document, error) {
	tree, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	root := &Node{Kind: KindDocument}
	for c := tree.FirstChild; c != nil; c = c.NextSibling {
		if n := convertHTML(c, root); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	return &Document{node: root}, nil
}

func convertHTML(src *html.Node, parent *Node) *Node {
	switch src.Type {
	case html.ElementNode:
		el := &Node{Kind: KindElement, Name: src.Data, Parent: parent}
		for _, a := range src.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			el.Attrs = append(el.Attrs, &Node{Kind: KindAttribute, Name: name, Value: a.Val, Parent: el})
		}
		for c := src.FirstChild; c != nil; c = c.NextSibling {
			if n := convertHTML(c, el); n != nil {
				el.Children = append(el.Children, n)
			}
		}
		return el
	case html.TextNode:
		if strings.TrimSpace(src.Data) == "" {
			return nil
		}
		return &Node{Kind: KindText, Value: src.Data, Parent: parent}
	case html.CommentNode:
		return &Node{Kind: KindComment, Value: src.Data, Parent: parent}
	case html.DoctypeNode:
		return &Node{Kind: KindDirective, Value: "DOCTYPE " + src.Data, Parent: parent}
	default:
		return nil
	}
}
