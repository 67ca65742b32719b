package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/leancanvas/internal/export"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// Lines outside the grid: title, status and help.
const chromeLines = 3

// gridSize returns the usable width and the height of one grid row.
func (m *model) gridSize() (width, rowH int) {
	width = max(m.width, 60)
	height := max(m.height, 20)
	rowH = max(3, (height-chromeLines)/export.GridRows)
	return width, rowH
}

// cellSize returns the outer size of the cell c.
func (m *model) cellSize(c export.Cell) (int, int) {
	width, rowH := m.gridSize()
	colW := width / (export.GridCols / 2)
	if c.ColSpan > 2 {
		// Bottom row halves.
		return colW * export.GridCols / 2 / 2, rowH
	}
	return colW, c.RowSpan * rowH
}

// applyLayout sizes every input to its grid cell.
func (m *model) applyLayout() {
	width, _ := m.gridSize()
	m.title.Width = max(10, width-lipgloss.Width(titlePrefix)-2)
	m.help.Width = width
	for _, c := range export.Layout {
		i := m.areaIndex(c.Field)
		w, h := m.cellSize(c)
		// Border, then the label line.
		m.areas[i].SetWidth(max(4, w-2))
		m.areas[i].SetHeight(max(1, h-3))
	}
}

func (m *model) areaIndex(f canvas.Field) int {
	for i, sec := range m.sections {
		if sec.Field == f {
			return i
		}
	}
	return -1
}

const titlePrefix = "Product: "

func (m model) renderCell(c export.Cell) string {
	i := m.areaIndex(c.Field)
	sec := m.sections[i]
	w, h := m.cellSize(c)
	focused := m.focus == i+1

	ls, box := labelStyle, cellStyle
	if focused {
		ls, box = labelFocusedStyle, cellFocusedStyle
	}
	header := ls.Render(sec.Label)
	if lipgloss.Width(sec.Label)+1+lipgloss.Width(sec.Name) <= w-2 {
		header += " " + nameStyle.Render(sec.Name)
	}
	return box.Width(w - 2).Height(h - 2).Render(header + "\n" + m.areas[i].View())
}

func (m model) renderForm() string {
	top, bottom := export.Columns()
	cols := make([]string, 0, len(top))
	for _, col := range top {
		cells := make([]string, 0, len(col))
		for _, c := range col {
			cells = append(cells, m.renderCell(c))
		}
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, cells...))
	}
	lower := make([]string, 0, len(bottom))
	for _, c := range bottom {
		lower = append(lower, m.renderCell(c))
	}

	tp := labelStyle
	if m.focus == 0 {
		tp = labelFocusedStyle
	}
	title := tp.Render(titlePrefix) + m.title.View()

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		lipgloss.JoinHorizontal(lipgloss.Top, lower...),
		m.renderStatus(),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)
}

func (m model) renderStatus() string {
	width, _ := m.gridSize()
	left := m.status
	if m.statusErr {
		left = errStyle.Render(left)
	}
	right := "saved"
	if m.sess.Dirty() {
		right = dirtyStyle.Render("● unsaved")
	}
	space := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", space) + right
}

func (m model) renderHelp() string {
	w, h := modalSize(m.width, m.height, 0.6, 0.4, 40, 90, 8, 16)
	body := lipgloss.NewStyle().Bold(true).Render("Keys") + "\n\n" + m.help.FullHelpView(m.keys.FullHelp())
	return modalBox(w, h, 2, 1).Render(body)
}

func (m model) View() string {
	base := m.renderForm()
	switch {
	case m.confirm != nil:
		return m.renderOverlay(base, m.confirm.View())
	case m.prompt != nil:
		return m.renderOverlay(base, m.prompt.View())
	case m.preview != nil:
		return m.renderOverlay(base, m.preview.View())
	case m.showHelp:
		return m.renderOverlay(base, m.renderHelp())
	}
	return base
}
