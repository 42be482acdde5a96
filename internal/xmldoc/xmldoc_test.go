package xmldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalog = `<?xml version="1.0"?>
<!-- inventory -->
<catalog region="eu">
  <item sku="a1">first</item>
  <item sku="b2"><![CDATA[second]]></item>
  <note>plain<b>bold</b>tail</note>
</catalog>`

func TestParseBuildsDocumentOrder(t *testing.T) {
	doc, err := ParseString(catalog)
	require.NoError(t, err)

	require.Len(t, doc.Node().Children, 2)
	assert.Equal(t, KindComment, doc.Node().Children[0].Kind)

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "catalog", root.Name)
	assert.Same(t, doc.Node(), root.Parent)

	region, ok := root.Attr("region")
	require.True(t, ok)
	assert.Equal(t, "eu", region)

	require.Len(t, root.Children, 3)
	assert.Equal(t, "first", root.Children[0].Children[0].Value)
	assert.Equal(t, KindCDATA, root.Children[1].Children[0].Kind)
	assert.Equal(t, "second", root.Children[1].Children[0].Value)
	assert.Equal(t, 5, doc.ElementCount())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := ParseString(`<a><b></a>`)
	require.Error(t, err)

	_, err = ParseString(`<a>`)
	require.Error(t, err)
}

func TestParseHTMLConvertsElements(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader(`<!doctype html><p class="x">hi<br></p>`))
	require.NoError(t, err)

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "html", root.Name)
	assert.Equal(t, KindDirective, doc.Node().Children[0].Kind)

	p := Resolve(doc, "/html/body/p")
	require.NotNil(t, p)
	class, _ := p.Attr("class")
	assert.Equal(t, "x", class)
	assert.Equal(t, "hi", p.Children[0].Value)
	assert.Equal(t, "br", p.Children[1].Name)
}

func TestMembersYieldsAttributesBeforeChildren(t *testing.T) {
	el := Element("root", Text("hi"), Attribute("id", "7"))
	var names []string
	for m := range el.Members() {
		name, _ := Name(m)
		names = append(names, name)
	}
	assert.Equal(t, []string{"@id", "text()"}, names)
}

func TestNameAndClassify(t *testing.T) {
	cases := []struct {
		node *Node
		name string
		ok   bool
		step Step
	}{
		{Element("root"), "root", true, StepElement},
		{Attribute("id", "7"), "@id", true, StepAttribute},
		{Text("hi"), "text()", true, StepText},
		{CDATA("raw"), "text()", true, StepText},
		{Comment("c"), "", false, StepSkip},
		{&Node{Kind: KindProcInst, Name: "pi"}, "", false, StepSkip},
	}
	for _, tc := range cases {
		name, ok := Name(tc.node)
		assert.Equal(t, tc.name, name)
		assert.Equal(t, tc.ok, ok)
		assert.Equal(t, tc.step, Classify(tc.node))
	}
}

func TestPathKeysDisambiguateSiblings(t *testing.T) {
	doc, err := ParseString(catalog)
	require.NoError(t, err)
	root := doc.Root()

	assert.Equal(t, "/catalog", PathKey(root))
	assert.Equal(t, "/catalog/@region", PathKey(root.Attrs[0]))
	assert.Equal(t, "/catalog/item[1]", PathKey(root.Children[0]))
	assert.Equal(t, "/catalog/item[2]/@sku", PathKey(root.Children[1].Attrs[0]))
	assert.Equal(t, "/catalog/note", PathKey(root.Children[2]))

	note := root.Children[2]
	assert.Equal(t, "/catalog/note/text()[1]", PathKey(note.Children[0]))
	assert.Equal(t, "/catalog/note/b/text()", PathKey(note.Children[1].Children[0]))
	assert.Equal(t, "/catalog/note/text()[2]", PathKey(note.Children[2]))

	assert.Empty(t, PathKey(doc.Node().Children[0]), "comments have no key")
	assert.Empty(t, PathKey(Element("detached")))
}

func TestResolveRoundTripsEveryKey(t *testing.T) {
	doc, err := ParseString(catalog)
	require.NoError(t, err)

	var visit func(*Node)
	visit = func(n *Node) {
		for m := range n.Members() {
			key := PathKey(m)
			if key == "" {
				continue
			}
			assert.Same(t, m, Resolve(doc, key), key)
			visit(m)
		}
	}
	visit(doc.Node())

	assert.Nil(t, Resolve(doc, "/catalog/item[3]"))
	assert.Nil(t, Resolve(doc, "/catalog/@missing"))
	assert.Nil(t, Resolve(doc, "catalog"))
	assert.Nil(t, Resolve(doc, "/catalog/item[x]"))
	assert.Nil(t, Resolve(nil, "/catalog"))
}

func TestOuterXMLIsDeterministic(t *testing.T) {
	doc := NewDocument(Element("root", Attribute("id", `7"`), Text("a<b"), Element("empty")))
	assert.Equal(t, `<root id="7&#34;">a&lt;b<empty /></root>`, doc.OuterXML())

	reparsed, err := ParseString(doc.OuterXML())
	require.NoError(t, err)
	assert.Equal(t, doc.OuterXML(), reparsed.OuterXML())
	assert.Equal(t, "", (*Document)(nil).OuterXML())
}

func TestNewDocumentLinksParents(t *testing.T) {
	id := Attribute("id", "7")
	text := Text("hi")
	root := Element("root", id, text)
	doc := NewDocument(root)

	assert.Same(t, root, id.Parent)
	assert.Same(t, root, text.Parent)
	assert.Same(t, root, doc.Root())
	assert.False(t, doc.Empty())
	assert.True(t, (*Document)(nil).Empty())
}

func TestInnerText(t *testing.T) {
	doc, err := ParseString(`<p id="x">one <b>two</b><![CDATA[ three]]><!-- skip --></p>`)
	require.NoError(t, err)
	root := doc.Root()
	assert.Equal(t, "one two three", root.InnerText())
	assert.Equal(t, "x", root.Attrs[0].InnerText())
	assert.Equal(t, "", (*Node)(nil).InnerText())
}

func TestStepsEscapeDelimitersInNames(t *testing.T) {
	odd := Element("x[2]", Attribute("a/b", "1"))
	first := Element("x")
	second := Element("x")
	doc := NewDocument(Element("body", odd, first, second))

	assert.Equal(t, []string{"x%5B2%5D", "x[1]", "x[2]"}, Steps(doc.Root()))
	assert.Equal(t, "/body/x%5B2%5D/@a%2Fb", PathKey(odd.Attrs[0]))
	assert.Same(t, odd, Resolve(doc, "/body/x%5B2%5D"))
	assert.Same(t, second, Resolve(doc, "/body/x[2]"))
	assert.Same(t, odd.Attrs[0], Resolve(doc, "/body/x%5B2%5D/@a%2Fb"))
}

func TestParseKeepsCDATASections(t *testing.T) {
	src := `<a><b><![CDATA[x < y]]></b><c><![CDATA[  ]]></c><d>  </d></a>`
	doc, err := ParseString(src)
	require.NoError(t, err)

	b := doc.Root().Children[0]
	require.Len(t, b.Children, 1)
	assert.Equal(t, KindCDATA, b.Children[0].Kind)
	assert.Equal(t, "x < y", b.Children[0].Value)

	c := doc.Root().Children[1]
	require.Len(t, c.Children, 1, "whitespace-only CDATA is kept")
	assert.Equal(t, KindCDATA, c.Children[0].Kind)

	assert.Empty(t, doc.Root().Children[2].Children, "whitespace-only text is dropped")
	assert.Contains(t, doc.OuterXML(), `<b><![CDATA[x < y]]></b>`)
}
