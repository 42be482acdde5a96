package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/doctree/internal/docview"
	"github.com/atomicstack/doctree/internal/doctree"
	"github.com/atomicstack/doctree/internal/format/table"
	uistate "github.com/atomicstack/doctree/internal/ui/state"
)

const footerText = "↑/↓ move  ←/→ fold  / jump  y copy  a add column  c columns  q quit"

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == ModeDialog && m.dialog != nil {
		return m.viewDialog()
	}
	lines := make([]styledLine, 0, 24)
	lines = append(lines, styledLine{text: m.header(), style: styles.Header})
	lines = append(lines, m.treeLines()...)
	lines = append(lines, m.detailLines()...)
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)

	bottom := applyWidth(m.bottomLines(), m.width)
	lines = append(lines, bottom...)
	return renderLines(lines)
}

func (m *Model) header() string {
	position := strings.TrimSpace(m.session.Position())
	if position == "" {
		position = "(no document)"
	}
	return position
}

// treeTop is the screen line of the first tree row.
func (m *Model) treeTop() int {
	return 1
}

func (m *Model) treeLines() []styledLine {
	if len(m.tree.Rows) == 0 {
		msg := "(empty document)"
		if m.view.Document() == nil {
			msg = "(no document loaded)"
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	start := 0
	rows := m.tree.Rows
	if maxItems := m.maxVisibleItems(); maxItems > 0 && len(rows) > maxItems {
		start = m.tree.ViewportOffset
		if start < 0 {
			start = 0
		}
		if start+maxItems > len(rows) {
			start = len(rows) - maxItems
			if start < 0 {
				start = 0
			}
			m.tree.ViewportOffset = start
		}
		rows = rows[start : start+maxItems]
	}
	out := make([]styledLine, 0, len(rows))
	for i, row := range rows {
		out = append(out, m.buildRowLine(row, start+i == m.tree.Cursor))
	}
	return out
}

// buildRowLine renders one tree row. The selected row uses the flat selection
// style across its full width; other rows keep per-kind colours.
func (m *Model) buildRowLine(row uistate.Row, selected bool) styledLine {
	n := row.Node
	icon := kindIcon(n.Kind)
	body := row.Prefix + uistate.Indicator(n) + " " + icon + " " + n.Label
	if selected {
		text := "▌" + body
		if m.width > 0 {
			if pad := m.width - lipgloss.Width(text); pad > 0 {
				text += strings.Repeat(" ", pad)
			}
		}
		return styledLine{
			text:          text,
			style:         styles.SelectedItem,
			prefixStyle:   styles.SelectedItemIndicator,
			highlightFrom: 1,
		}
	}
	var b strings.Builder
	b.WriteString(render(styles.ItemIndicator, "▌"))
	b.WriteString(render(styles.Branch, row.Prefix))
	b.WriteString(render(styles.Item, uistate.Indicator(n)+" "))
	b.WriteString(render(kindStyle(n.Kind), icon))
	b.WriteString(render(styles.Item, " "+n.Label))
	return styledLine{text: b.String(), raw: true}
}

func kindIcon(k doctree.Kind) string {
	switch k {
	case doctree.KindAttribute:
		return "@"
	case doctree.KindText:
		return "T"
	default:
		return "<>"
	}
}

func kindStyle(k doctree.Kind) *lipgloss.Style {
	switch k {
	case doctree.KindAttribute:
		return styles.Attribute
	case doctree.KindText:
		return styles.Text
	default:
		return styles.Element
	}
}

func render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

// detailLines renders everything between the tree and the bottom bar.
func (m *Model) detailLines() []styledLine {
	var lines []styledLine
	// The tooltip line is always reserved so the tree does not jump when the
	// selection moves between elements and values.
	lines = append(lines, styledLine{text: m.tooltip(), style: styles.Tooltip})
	if m.showColumns {
		lines = append(lines, styledLine{})
		lines = append(lines, m.columnLines()...)
	}
	if m.mode == ModeJump && m.jump != nil {
		lines = append(lines, styledLine{})
		lines = append(lines, m.jumpLines()...)
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: footerText, style: styles.Footer})
	}
	return lines
}

// tooltip shows the literal value of the selected attribute or text node.
func (m *Model) tooltip() string {
	n := m.tree.Selected()
	if n == nil || n.Kind == doctree.KindElement {
		return ""
	}
	value := strings.Join(strings.Fields(n.Tooltip), " ")
	return fmt.Sprintf("%s = %q", n.Label, value)
}

func (m *Model) columnLines() []styledLine {
	cols := m.session.Template().Columns()
	lines := []styledLine{{text: fmt.Sprintf("Columns (%d)", len(cols)), style: styles.PanelTitle}}
	if len(cols) == 0 {
		return append(lines, styledLine{text: "(no columns, press a to add the selected node)", style: styles.Info})
	}
	rows := make([][]string, 0, len(cols))
	for _, col := range cols {
		value := "-"
		if n := m.view.Resolve(col.Path); n != nil {
			value = strings.Join(strings.Fields(n.InnerText()), " ")
		}
		rows = append(rows, []string{col.Name, col.Path, value})
	}
	for _, row := range table.Format(rows, nil) {
		lines = append(lines, styledLine{text: row, style: styles.PanelBody})
	}
	return lines
}

func (m *Model) jumpLines() []styledLine {
	matches := m.jump.Matches()
	if m.jump.Value() == "" {
		return []styledLine{{text: "Type to search path keys, enter to jump, esc to cancel.", style: styles.Info}}
	}
	if len(matches) == 0 {
		return []styledLine{{text: fmt.Sprintf("No matches for %q", m.jump.Value()), style: styles.Info}}
	}
	lines := make([]styledLine, 0, maxJumpMatches)
	for i, match := range matches {
		if i == maxJumpMatches {
			break
		}
		style := styles.Item
		if i == 0 {
			style = styles.SelectedItem
		}
		lines = append(lines, styledLine{text: match, style: style})
	}
	return lines
}

func (m *Model) bottomLines() []styledLine {
	status := m.statusLine()
	var second styledLine
	switch {
	case m.mode == ModeJump && m.jump != nil:
		second = styledLine{text: m.jump.InputView(), raw: true}
	case m.errMsg != "":
		second = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	case m.indicators.Err != "":
		second = styledLine{text: fmt.Sprintf("Error: %s", m.indicators.Err), style: styles.Error}
	}
	return []styledLine{status, second}
}

// statusLine shows the spinner and loading text while busy, and the session's
// selected path once idle.
func (m *Model) statusLine() styledLine {
	ind := m.indicators
	if ind.Text == "" {
		ind.Text = docview.StatusIdle
	}
	if ind.Busy {
		return styledLine{text: m.spinner.View() + " " + render(styles.Loading, ind.Text), raw: true}
	}
	text := render(styles.Idle, ind.Text)
	if ind.Path != "" {
		text += "  " + render(styles.Path, ind.Path)
	}
	return styledLine{text: text, raw: true}
}

func (m *Model) viewDialog() string {
	w := m.dialog
	body := render(styles.DialogTitle, w.Title) + "\n\n" + w.Text + "\n\n" + render(styles.DialogButton, "OK")
	box := body
	if styles.DialogBorder != nil {
		style := *styles.DialogBorder
		if m.width > 8 {
			style = style.MaxWidth(m.width)
			if limit := m.width - 4; lipgloss.Width(w.Text) > limit {
				style = style.Width(limit)
			}
		}
		box = style.Render(body)
	}
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.syncViewport()
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 2 + m.treeTop() // bottom bar: status + error/prompt
	used += len(m.detailLines())
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{
			text:          text,
			style:         line.style,
			prefixStyle:   line.prefixStyle,
			highlightFrom: line.highlightFrom,
			raw:           line.raw,
		}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
