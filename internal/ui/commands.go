package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/doctree/internal/docview"
	"github.com/atomicstack/doctree/internal/logging"
	"github.com/atomicstack/doctree/internal/logging/events"
	"github.com/atomicstack/doctree/internal/ui/command"
)

const (
	commandCopyPath  = "path:copy"
	commandAddColumn = "template:add-column"
)

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.forceClearInfo()
		logging.Error(result.Err)
		events.Action.Error(result.Err)
		return nil
	}
	m.errMsg = ""
	if result.Info != "" {
		m.setInfo(result.Info)
	}
	events.Action.Success(result.Info)
	return nil
}

// copySelectedPath copies the selected path key to the system clipboard.
func (m *Model) copySelectedPath() tea.Cmd {
	n := m.tree.Selected()
	if n == nil {
		m.setInfo("Nothing selected.")
		return nil
	}
	path := n.Path
	write := m.copyText
	return m.bus.Execute(command.Request{
		ID:    commandCopyPath,
		Label: path,
		Handler: func() (string, error) {
			if write == nil {
				return "", errors.New("clipboard unavailable")
			}
			if err := write(path); err != nil {
				return "", fmt.Errorf("copy path: %w", err)
			}
			return fmt.Sprintf("Copied %s", path), nil
		},
	})
}

// addColumn runs the add-column command for the selected node. A locked
// template opens the warning dialog.
func (m *Model) addColumn() tea.Cmd {
	if m.tree.Selected() == nil {
		m.setInfo("Nothing selected.")
		return nil
	}
	before := len(m.session.Template().Columns())
	warning, warn := m.view.AddColumn()
	if warn {
		m.openDialog(warning)
		return nil
	}
	cols := m.session.Template().Columns()
	if len(cols) > before {
		col := cols[len(cols)-1]
		m.setInfo(fmt.Sprintf("Added column %s", col.Name))
	} else {
		m.setInfo("Column already present.")
	}
	events.Action.Success(commandAddColumn)
	return nil
}

func (m *Model) openDialog(w docview.Warning) {
	m.dialog = &w
	m.mode = ModeDialog
	events.UI.Dialog(w.Title)
}

func (m *Model) closeDialog() {
	m.dialog = nil
	m.mode = ModeTree
}
