package events

import "github.com/atomicstack/doctree/internal/logging"

type TreeTracer struct{}

type SelectionTracer struct{}

var (
	Tree      = TreeTracer{}
	Selection = SelectionTracer{}
)

func (TreeTracer) Rebuild(position string, nodes int) {
	logging.Trace("tree.rebuild", map[string]interface{}{"position": position, "nodes": nodes})
}

func (TreeTracer) Unchanged(position string) {
	logging.Trace("tree.unchanged", map[string]interface{}{"position": position})
}

func (TreeTracer) Toggle(path string, expanded bool) {
	logging.Trace("tree.toggle", map[string]interface{}{"path": path, "expanded": expanded})
}

// Select records a visual selection written to the shared state.
func (SelectionTracer) Select(path string) {
	logging.Trace("selection.select", map[string]interface{}{"path": path})
}

// Apply records the shared selection being applied to the tree.
func (SelectionTracer) Apply(path string) {
	logging.Trace("selection.apply", map[string]interface{}{"path": path})
}

func (SelectionTracer) Miss(path string) {
	logging.Trace("selection.miss", map[string]interface{}{"path": path})
}
