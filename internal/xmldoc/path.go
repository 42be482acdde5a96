package xmldoc

import (
	"strconv"
	"strings"
)

// TextStep is the display name and path step shared by text and CDATA nodes.
const TextStep = "text()"

// Step is the tagged variant produced when walking Members.
type Step int

const (
	StepSkip Step = iota
	StepElement
	StepAttribute
	StepText
)

// Classify maps a node onto the variant the tree builder acts on.
func Classify(n *Node) Step {
	if n == nil {
		return StepSkip
	}
	switch n.Kind {
	case KindElement:
		return StepElement
	case KindAttribute:
		return StepAttribute
	case KindText, KindCDATA:
		return StepText
	default:
		return StepSkip
	}
}

// Name returns the display name of n. Nodes without a canonical name
// (comments, processing instructions, directives) report false.
func Name(n *Node) (string, bool) {
	switch Classify(n) {
	case StepElement:
		return n.Name, n.Name != ""
	case StepAttribute:
		return "@" + n.Name, n.Name != ""
	case StepText:
		return TextStep, true
	default:
		return "", false
	}
}

// Steps returns the path step of every member of n, in Members order.
// Unnamed members get an empty step. A step carries a 1-based positional
// predicate only when n has more than one member with the same name.
func Steps(n *Node) []string {
	if n == nil {
		return nil
	}
	steps := make([]string, 0, len(n.Attrs)+len(n.Children))
	totals := make(map[string]int, len(n.Children))
	for _, child := range n.Children {
		if name, ok := Name(child); ok {
			totals[escapeStep(name)]++
		}
	}
	seen := make(map[string]int, len(totals))
	for member := range n.Members() {
		name, ok := Name(member)
		if !ok {
			steps = append(steps, "")
			continue
		}
		name = escapeStep(name)
		if member.Kind == KindAttribute {
			steps = append(steps, name)
			continue
		}
		seen[name]++
		if totals[name] > 1 {
			name += "[" + strconv.Itoa(seen[name]) + "]"
		}
		steps = append(steps, name)
	}
	return steps
}

// PathKey derives the path key of n from the document structure alone. It
// returns "" for unnamed nodes and for nodes detached from a document.
func PathKey(n *Node) string {
	if _, ok := Name(n); !ok {
		return ""
	}
	var parts []string
	for cur := n; cur != nil && cur.Kind != KindDocument; cur = cur.Parent {
		step := stepOf(cur)
		if step == "" {
			return ""
		}
		parts = append(parts, step)
	}
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

func stepOf(n *Node) string {
	parent := n.Parent
	if parent == nil {
		return ""
	}
	i := 0
	steps := Steps(parent)
	for member := range parent.Members() {
		if member == n {
			return steps[i]
		}
		i++
	}
	return ""
}

var stepEscaper = strings.NewReplacer("%", "%25", "/", "%2F", "[", "%5B", "]", "%5D")

// escapeStep percent-encodes the characters that delimit steps and
// predicates. HTML input admits names such as "x[2]" that would otherwise
// read as a positional predicate.
func escapeStep(name string) string {
	if !strings.ContainsAny(name, "%/[]") {
		return name
	}
	return stepEscaper.Replace(name)
}

// Resolve walks key from the document node and returns the node it names, or
// nil when nothing matches.
func Resolve(doc *Document, key string) *Node {
	if doc == nil || !strings.HasPrefix(key, "/") {
		return nil
	}
	cur := doc.Node()
	for _, raw := range strings.Split(key[1:], "/") {
		if raw == "" {
			return nil
		}
		name, pos := parseStep(raw)
		if pos < 0 {
			return nil
		}
		cur = followStep(cur, name, pos)
		if cur == nil {
			return nil
		}
	}
	if cur.Kind == KindDocument {
		return nil
	}
	return cur
}

// parseStep splits "item[2]" into ("item", 2). A missing predicate yields
// position 1; a malformed one yields -1.
func parseStep(step string) (string, int) {
	idx := strings.IndexByte(step, '[')
	if idx < 0 {
		return step, 1
	}
	if !strings.HasSuffix(step, "]") {
		return step, -1
	}
	pos, err := strconv.Atoi(step[idx+1 : len(step)-1])
	if err != nil || pos < 1 {
		return step, -1
	}
	return step[:idx], pos
}

func followStep(parent *Node, name string, pos int) *Node {
	if strings.HasPrefix(name, "@") {
		if pos != 1 {
			return nil
		}
		for _, attr := range parent.Attrs {
			if escapeStep("@"+attr.Name) == name {
				return attr
			}
		}
		return nil
	}
	seen := 0
	for _, child := range parent.Children {
		childName, ok := Name(child)
		if !ok || escapeStep(childName) != name {
			continue
		}
		seen++
		if seen == pos {
			return child
		}
	}
	return nil
}
