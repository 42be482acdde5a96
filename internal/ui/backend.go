package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct{}

type selectionMsg struct {
	path string
}

type selectionDoneMsg struct{}

// scheduleTick arms the next poll. It is only called once the current tick
// has been handled, so ticks never overlap.
func (m *Model) scheduleTick() tea.Cmd {
	if m.manual {
		return nil
	}
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *Model) waitForSelection() tea.Cmd {
	ch := m.view.Changes()
	if ch == nil || m.manual {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return selectionDoneMsg{}
		}
		return selectionMsg{path: path}
	}
}

func (m *Model) handleTickMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tickMsg); !ok {
		return nil
	}
	m.tree.Height = m.maxVisibleItems()
	m.indicators = m.view.Tick()
	m.syncViewport()
	return m.scheduleTick()
}

func (m *Model) handleSelectionMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(selectionMsg); !ok {
		return nil
	}
	m.tree.Height = m.maxVisibleItems()
	m.view.ApplySelectedNode()
	m.indicators.Path = m.session.SelectedPath()
	return m.waitForSelection()
}

func (m *Model) handleSelectionDoneMsg(tea.Msg) tea.Cmd {
	return nil
}

func (m *Model) handleSpinnerMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	if m.manual {
		return nil
	}
	return cmd
}
