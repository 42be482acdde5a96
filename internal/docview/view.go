// Package docview keeps the document tree in step with the polled document
// and with the selection held by the shared session.
//
// A View is driven from a single goroutine: the host calls Tick on a fixed
// interval and ApplySelectedNode whenever the session reports a selection
// change. Neither call blocks on I/O.
package docview

import (
	"github.com/atomicstack/doctree/internal/doctree"
	"github.com/atomicstack/doctree/internal/logging"
	"github.com/atomicstack/doctree/internal/logging/events"
	"github.com/atomicstack/doctree/internal/state"
	"github.com/atomicstack/doctree/internal/xmldoc"
)

const (
	StatusLoading = "loading in progress"
	StatusIdle    = "loading completed"
)

// Source hands out the latest snapshot for a position. It must return
// promptly; a nil document means nothing is available yet.
type Source interface {
	Document(position string) *xmldoc.Document
}

// Status reports whether the loader is busy.
type Status interface {
	IsWorking() bool
}

type errorReporter interface {
	LastError() error
}

// Widget is the tree control the view drives.
type Widget interface {
	SetRoots(roots []*doctree.Node)
	Selected() *doctree.Node
	Select(n *doctree.Node) bool
}

// Indicators is the status shown next to the tree after a tick.
type Indicators struct {
	Text string
	// Busy controls the visibility of the progress indicator.
	Busy bool
	Path string
	Err  string
}

// Warning is a message the user has to acknowledge.
type Warning struct {
	Title string
	Text  string
}

// View synchronises a Widget with a Source and a session.
type View struct {
	source Source
	status Status
	widget Widget

	session     *state.Session
	changes     <-chan string
	unsubscribe func()

	doc      *xmldoc.Document
	index    *doctree.Index
	roots    []*doctree.Node
	rebuilds int

	indicators Indicators
}

// New returns an unbound view. Tick does nothing until Bind is called.
func New(source Source, status Status, widget Widget) *View {
	return &View{
		source: source,
		status: status,
		widget: widget,
		index:  doctree.NewIndex(),
	}
}

// Bind attaches the session. A view binds once; later calls are ignored with
// a warning.
func (v *View) Bind(session *state.Session) bool {
	if session == nil {
		return false
	}
	if v.session != nil {
		logging.Warn("docview: state already bound, ignoring second bind")
		return false
	}
	v.session = session
	v.changes, v.unsubscribe = session.Subscribe()
	v.ApplySelectedNode()
	return true
}

// Session returns the bound session, or nil.
func (v *View) Session() *state.Session {
	return v.session
}

// Changes delivers a value whenever the session selection changes. It is
// nil before Bind and closed by Close.
func (v *View) Changes() <-chan string {
	return v.changes
}

// Tick fetches the snapshot for the current position, rebuilds the tree when
// it changed and refreshes the indicators.
func (v *View) Tick() Indicators {
	if v.session == nil {
		return v.indicators
	}
	position := v.session.Position()
	doc := v.source.Document(position)
	if doctree.Equivalent(v.doc, doc) {
		events.Tree.Unchanged(position)
	} else {
		v.doc = doc
		v.Rebuild(doc)
	}
	v.refreshIndicators()
	return v.indicators
}

func (v *View) refreshIndicators() {
	busy := v.status != nil && v.status.IsWorking()
	ind := Indicators{Text: StatusIdle, Busy: busy}
	if busy {
		ind.Text = StatusLoading
	}
	if v.session != nil {
		ind.Path = v.session.SelectedPath()
	}
	if r, ok := v.status.(errorReporter); ok {
		if err := r.LastError(); err != nil {
			ind.Err = err.Error()
		}
	}
	v.indicators = ind
}

// Rebuild replaces the tree with one built from doc and re-applies the
// session selection. Expansion carries over for path keys that survive.
func (v *View) Rebuild(doc *xmldoc.Document) {
	roots, index := doctree.Build(doc)
	doctree.CarryExpansion(v.index, roots)
	v.roots = roots
	v.index = index
	v.widget.SetRoots(roots)
	v.rebuilds++
	position := ""
	if v.session != nil {
		position = v.session.Position()
	}
	events.Tree.Rebuild(position, index.Len())
	v.ApplySelectedNode()
}

// ApplySelectedNode selects the session's path in the widget. Nothing happens
// when the widget already shows it or when the path is not in the current
// tree. It reports whether the widget changed.
func (v *View) ApplySelectedNode() bool {
	if v.session == nil {
		return false
	}
	path := v.session.SelectedPath()
	current := ""
	if sel := v.widget.Selected(); sel != nil {
		current = sel.Path
	}
	if path == current {
		return false
	}
	n, ok := v.index.Lookup(path)
	if !ok {
		events.Selection.Miss(path)
		return false
	}
	events.Selection.Apply(path)
	return v.widget.Select(n)
}

// SelectNode publishes n as the session selection.
func (v *View) SelectNode(n *doctree.Node) {
	if v.session == nil || n == nil {
		return
	}
	events.Selection.Select(n.Path)
	v.session.SetSelectedPath(n.Path)
}

// AddColumn adds the path key of the node the widget shows as selected to
// the session template. When the template refuses changes it returns a
// warning for the user instead.
func (v *View) AddColumn() (Warning, bool) {
	if v.session == nil {
		return Warning{}, false
	}
	n := v.widget.Selected()
	if n == nil {
		return Warning{}, false
	}
	path := n.Path
	tmpl := v.session.Template()
	if !tmpl.CanAutoModify() {
		events.Template.Locked(path)
		return Warning{
			Title: "Unable to add column",
			Text:  "The current template cannot be changed automatically. Edit it by hand to add this column.",
		}, true
	}
	col := tmpl.AddColumn(path)
	events.Template.AddColumn(col.Name, col.Path)
	return Warning{}, false
}

// Resolve returns the node of the rendered snapshot at path.
func (v *View) Resolve(path string) *xmldoc.Node {
	return xmldoc.Resolve(v.doc, path)
}

// Document returns the snapshot the tree was last built from.
func (v *View) Document() *xmldoc.Document { return v.doc }

// Index returns the path-key index of the current tree.
func (v *View) Index() *doctree.Index { return v.index }

// Roots returns the top-level visual nodes.
func (v *View) Roots() []*doctree.Node { return v.roots }

// Indicators returns the status computed by the last Tick.
func (v *View) Indicators() Indicators { return v.indicators }

// Rebuilds counts the rebuilds done so far.
func (v *View) Rebuilds() int { return v.rebuilds }

// Close drops the session subscription.
func (v *View) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}
