package events

import "github.com/atomicstack/doctree/internal/logging"

type UITracer struct{}

type JumpTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Jump    = JumpTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) Cursor(path string, row int) {
	logging.Trace("tree.cursor", map[string]interface{}{"path": path, "row": row})
}

func (UITracer) Click(path string, button string) {
	logging.Trace("tree.click", map[string]interface{}{"path": path, "button": button})
}

func (UITracer) Dialog(title string) {
	logging.Trace("ui.dialog", map[string]interface{}{"title": title})
}

func (JumpTracer) Open() {
	logging.Trace("jump.open", nil)
}

func (JumpTracer) Query(query string, matches int) {
	logging.Trace("jump.query", map[string]interface{}{"query": query, "matches": matches})
}

func (JumpTracer) Submit(query, path string) {
	logging.Trace("jump.submit", map[string]interface{}{"query": query, "path": path})
}

func (JumpTracer) Cancel() {
	logging.Trace("jump.cancel", nil)
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
