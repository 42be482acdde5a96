package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/doctree/internal/logging/events"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.String() == "ctrl+c" {
		return tea.Quit
	}
	switch m.mode {
	case ModeDialog:
		return m.handleDialogKey(keyMsg)
	case ModeJump:
		return m.handleJumpKey(keyMsg)
	}
	switch keyMsg.String() {
	case "q", "esc":
		return tea.Quit
	case "up", "k":
		m.afterMove(m.tree.MoveCursorUp())
	case "down", "j":
		m.afterMove(m.tree.MoveCursorDown())
	case "pgup":
		m.afterMove(m.tree.MoveCursorPageUp(m.maxVisibleItems()))
	case "pgdown":
		m.afterMove(m.tree.MoveCursorPageDown(m.maxVisibleItems()))
	case "home", "g":
		m.afterMove(m.tree.MoveCursorHome())
	case "end", "G":
		m.afterMove(m.tree.MoveCursorEnd())
	case "left", "h":
		m.collapse()
	case "right", "l":
		m.expand()
	case "enter", " ":
		m.toggle()
	case "e":
		if m.tree.ExpandAll() {
			m.syncViewport()
		}
	case "/":
		return m.openJump()
	case "y":
		return m.copySelectedPath()
	case "a":
		return m.addColumn()
	case "c":
		m.showColumns = !m.showColumns
		m.syncViewport()
	}
	return nil
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc", " ", "q":
		m.closeDialog()
	}
	return nil
}

// afterMove publishes the new cursor position as the session selection.
func (m *Model) afterMove(moved bool) {
	if !moved {
		return
	}
	m.syncViewport()
	n := m.tree.Selected()
	if n == nil {
		return
	}
	events.UI.Cursor(n.Path, m.tree.Cursor)
	m.view.SelectNode(n)
	m.indicators.Path = n.Path
}

func (m *Model) collapse() {
	before := m.tree.Selected()
	if !m.tree.Collapse() {
		return
	}
	if after := m.tree.Selected(); after != before {
		m.afterMove(true)
		return
	}
	events.Tree.Toggle(before.Path, false)
	m.syncViewport()
}

func (m *Model) expand() {
	if n := m.tree.Selected(); n != nil && m.tree.Expand() {
		events.Tree.Toggle(n.Path, true)
		m.syncViewport()
	}
}

func (m *Model) toggle() {
	if n := m.tree.Selected(); n != nil && m.tree.Toggle() {
		events.Tree.Toggle(n.Path, n.Expanded)
		m.syncViewport()
	}
}

func (m *Model) syncViewport() {
	m.tree.Height = m.maxVisibleItems()
	m.tree.EnsureCursorVisible(m.tree.Height)
}

// handleMouseMsg selects the clicked row on left and right presses and moves
// the cursor with the wheel.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok || m.mode != ModeTree {
		return nil
	}
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		m.afterMove(m.tree.MoveCursorUp())
		return nil
	case tea.MouseButtonWheelDown:
		m.afterMove(m.tree.MoveCursorDown())
		return nil
	case tea.MouseButtonLeft, tea.MouseButtonRight:
	default:
		return nil
	}
	if ev.Action != tea.MouseActionPress {
		return nil
	}
	row := m.rowAt(ev.Y)
	n := m.tree.NodeAt(row)
	if n == nil {
		return nil
	}
	events.UI.Click(n.Path, buttonName(ev.Button))
	m.tree.MoveCursorTo(row)
	m.syncViewport()
	// A click always publishes, even on the row that is already current.
	m.view.SelectNode(n)
	m.indicators.Path = n.Path
	return nil
}

func buttonName(b tea.MouseButton) string {
	switch b {
	case tea.MouseButtonLeft:
		return "left"
	case tea.MouseButtonRight:
		return "right"
	default:
		return "other"
	}
}

// rowAt maps a screen line to a tree row, or -1 outside the tree.
func (m *Model) rowAt(y int) int {
	line := y - m.treeTop()
	if line < 0 {
		return -1
	}
	if limit := m.maxVisibleItems(); limit > 0 && line >= limit {
		return -1
	}
	return m.tree.ViewportOffset + line
}
