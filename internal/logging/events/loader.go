package events

import "github.com/atomicstack/doctree/internal/logging"

type LoaderTracer struct{}

type TemplateTracer struct{}

var (
	Loader   = LoaderTracer{}
	Template = TemplateTracer{}
)

func (LoaderTracer) Fetch(position string) {
	logging.Trace("loader.fetch", map[string]interface{}{"position": position})
}

func (LoaderTracer) Reuse(position string) {
	logging.Trace("loader.reuse", map[string]interface{}{"position": position})
}

func (LoaderTracer) Loaded(position string, elements, size int) {
	logging.Trace("loader.loaded", map[string]interface{}{"position": position, "elements": elements, "size": size})
}

func (LoaderTracer) Stale(position, op string) {
	logging.Trace("loader.stale", map[string]interface{}{"position": position, "op": op})
}

func (LoaderTracer) Error(position string, err error) {
	if err == nil {
		return
	}
	logging.Trace("loader.error", map[string]interface{}{"position": position, "error": err.Error()})
}

func (TemplateTracer) AddColumn(name, path string) {
	logging.Trace("template.column.add", map[string]interface{}{"name": name, "path": path})
}

func (TemplateTracer) Locked(path string) {
	logging.Trace("template.column.locked", map[string]interface{}{"path": path})
}
