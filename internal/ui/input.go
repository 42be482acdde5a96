package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/doctree/internal/logging/events"
	uistate "github.com/atomicstack/doctree/internal/ui/state"
)

const maxJumpMatches = 5

// JumpForm is the prompt that moves the selection to a fuzzy-matched path.
type JumpForm struct {
	input   textinput.Model
	keys    []string
	matches []string
}

// NewJumpForm prepares a prompt over the given path keys.
func NewJumpForm(keys []string) *JumpForm {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "path or name"
	ti.CharLimit = 256
	if styles.FilterPrompt != nil {
		ti.PromptStyle = *styles.FilterPrompt
	}
	if styles.Filter != nil {
		ti.TextStyle = *styles.Filter
	}
	if styles.FilterPlaceholder != nil {
		ti.PlaceholderStyle = *styles.FilterPlaceholder
	}
	if styles.Cursor != nil {
		ti.Cursor.Style = *styles.Cursor
	}
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	return &JumpForm{input: ti, keys: keys}
}

func (f *JumpForm) Value() string     { return strings.TrimSpace(f.input.Value()) }
func (f *JumpForm) InputView() string { return f.input.View() }
func (f *JumpForm) Matches() []string { return f.matches }

// SetValue replaces the query and recomputes matches.
func (f *JumpForm) SetValue(v string) {
	f.input.SetValue(v)
	f.input.CursorEnd()
	f.refresh()
}

// Best returns the match a submit would jump to.
func (f *JumpForm) Best() (string, bool) {
	if len(f.matches) == 0 {
		return "", false
	}
	return f.matches[0], true
}

// Update feeds a key to the prompt. It reports whether the prompt was
// submitted or cancelled.
func (f *JumpForm) Update(msg tea.KeyMsg) (cmd tea.Cmd, submitted, cancelled bool) {
	switch msg.Type {
	case tea.KeyEsc:
		return nil, false, true
	case tea.KeyEnter:
		return nil, true, false
	}
	if msg.String() == "ctrl+u" {
		f.SetValue("")
		return nil, false, false
	}
	before := f.input.Value()
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		f.refresh()
	}
	return cmd, false, false
}

func (f *JumpForm) refresh() {
	f.matches = uistate.MatchPaths(f.keys, f.Value())
	events.Jump.Query(f.Value(), len(f.matches))
}

func (m *Model) openJump() tea.Cmd {
	m.jump = NewJumpForm(m.view.Index().Keys())
	m.mode = ModeJump
	m.errMsg = ""
	m.forceClearInfo()
	events.Jump.Open()
	return textinput.Blink
}

func (m *Model) closeJump() {
	m.jump = nil
	m.mode = ModeTree
	m.syncViewport()
}

func (m *Model) handleJumpKey(msg tea.KeyMsg) tea.Cmd {
	if m.jump == nil {
		m.mode = ModeTree
		return nil
	}
	cmd, submitted, cancelled := m.jump.Update(msg)
	switch {
	case cancelled:
		events.Jump.Cancel()
		m.closeJump()
		return nil
	case submitted:
		m.submitJump()
		return nil
	}
	return cmd
}

// submitJump selects the best match through the tree and publishes it to the
// session like any other visual selection.
func (m *Model) submitJump() {
	query := m.jump.Value()
	path, ok := m.jump.Best()
	if !ok {
		return
	}
	events.Jump.Submit(query, path)
	m.closeJump()
	n, found := m.view.Index().Lookup(path)
	if !found {
		return
	}
	m.tree.Height = m.maxVisibleItems()
	m.tree.Select(n)
	m.afterMove(true)
}
