package doctree

import "github.com/atomicstack/doctree/internal/xmldoc"

// Equivalent reports whether next can be skipped because it looks like prev.
// The comparison is deliberately cheap: identical pointers, or equal element
// counts and equal serialised lengths. Different documents that agree on both
// measures are treated as equal and do not trigger a rebuild.
func Equivalent(prev, next *xmldoc.Document) bool {
	if prev == next {
		return true
	}
	if prev == nil || next == nil {
		return false
	}
	return prev.ElementCount() == next.ElementCount() &&
		len(prev.OuterXML()) == len(next.OuterXML())
}
