package command

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/doctree/internal/logging/events"
)

// Request encapsulates an action invocation.
type Request struct {
	ID      string
	Label   string
	Handler func() (string, error)
}

// Result reports the outcome of a Request back to the model.
type Result struct {
	ID    string
	Label string
	Info  string
	Err   error
}

// Bus coordinates the execution of side-effecting actions off the update
// goroutine.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps an action into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		info, err := req.Handler()
		res := Result{ID: req.ID, Label: req.Label, Info: info, Err: err}
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", res))
		return res
	}
}
