package ui

import (
	"reflect"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/doctree/internal/docview"
	"github.com/atomicstack/doctree/internal/state"
	"github.com/atomicstack/doctree/internal/theme"
	"github.com/atomicstack/doctree/internal/ui/command"
	uistate "github.com/atomicstack/doctree/internal/ui/state"
)

type Mode int

const (
	ModeTree Mode = iota
	ModeJump
	ModeDialog
)

const defaultInterval = 500 * time.Millisecond

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Source     docview.Source
	Status     docview.Status
	Session    *state.Session
	Interval   time.Duration
	Width      int
	Height     int
	ShowFooter bool
}

// Model implements the Bubble Tea model for the document tree browser.
type Model struct {
	view    *docview.View
	tree    *uistate.Tree
	session *state.Session

	interval   time.Duration
	indicators docview.Indicators
	spinner    spinner.Model

	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	showColumns bool

	mode   Mode
	jump   *JumpForm
	dialog *docview.Warning

	handlers map[reflect.Type]msgHandler
	bus      *command.Bus
	copyText func(string) error

	// manual turns off the tick timer and the blocking selection wait so a
	// Harness can drive the model one message at a time.
	manual bool
}

// NewModel binds a docview to the session and prepares the widgets.
func NewModel(opts Options) *Model {
	session := opts.Session
	if session == nil {
		session = state.NewSession("", nil)
	}
	tree := uistate.NewTree()
	view := docview.New(opts.Source, opts.Status, tree)
	view.Bind(session)
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	if styles.Loading != nil {
		sp.Style = *styles.Loading
	}
	m := &Model{
		view:       view,
		tree:       tree,
		session:    session,
		interval:   interval,
		spinner:    sp,
		showFooter: opts.ShowFooter,
		mode:       ModeTree,
		bus:        command.New(),
		copyText:   clipboard.WriteAll,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		func() tea.Msg { return tickMsg{} },
		m.spinner.Tick,
	}
	if cmd := m.waitForSelection(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tickMsg{}):           m.handleTickMsg,
		reflect.TypeOf(selectionMsg{}):      m.handleSelectionMsg,
		reflect.TypeOf(selectionDoneMsg{}):  m.handleSelectionDoneMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerMsg,
		reflect.TypeOf(command.Result{}):    m.handleCommandResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Close releases the session subscription.
func (m *Model) Close() {
	m.view.Close()
}

// Session returns the session the model is bound to.
func (m *Model) Session() *state.Session {
	return m.session
}

// Tree exposes the widget state.
func (m *Model) Tree() *uistate.Tree {
	return m.tree
}

// DocView exposes the synchroniser driving the tree.
func (m *Model) DocView() *docview.View {
	return m.view
}

// Mode reports the active input mode.
func (m *Model) Mode() Mode {
	return m.mode
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
