package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/mithrel/leancanvas/internal/export"
	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// rowLines is the height in lines of one grid row of the top block.
const rowLines = 5

var (
	gridTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	gridLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	gridNameStyle  = lipgloss.NewStyle().Faint(true)
	gridHintStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
	gridBoxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// RenderGrid draws the canvas as boxes laid out like the paper canvas,
// width columns wide.
func RenderGrid(r canvas.Record, width int) string {
	if width < 60 {
		width = 60
	}
	top, bottom := export.Columns()
	colW := width / len(top)

	cols := make([]string, 0, len(top))
	for _, col := range top {
		var cells []string
		for _, c := range col {
			cells = append(cells, gridCell(r, c.Field, colW, c.RowSpan*rowLines))
		}
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, cells...))
	}
	upper := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	halfW := colW * len(top) / len(bottom)
	var lower []string
	for _, c := range bottom {
		lower = append(lower, gridCell(r, c.Field, halfW, rowLines))
	}

	title := r.ProductName
	if title == "" {
		title = mdcodec.FallbackTitle
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		gridTitleStyle.Render(title),
		upper,
		lipgloss.JoinHorizontal(lipgloss.Top, lower...),
	) + "\n"
}

// gridCell renders one bordered section box of outer size w×h.
func gridCell(r canvas.Record, f canvas.Field, w, h int) string {
	sec, _ := canvas.SectionFor(f)
	innerW := w - 4 // border + padding
	innerH := h - 2
	if innerW < 4 {
		innerW = 4
	}
	if innerH < 2 {
		innerH = 2
	}

	header := gridLabelStyle.Render(truncate.StringWithTail(sec.Label, uint(innerW), "…"))
	if lipgloss.Width(sec.Label)+1+lipgloss.Width(sec.Name) <= innerW {
		header += " " + gridNameStyle.Render(sec.Name)
	}

	var body []string
	if v := r.Get(f); v != "" {
		body = wrapLines(v, innerW, innerH-1)
	} else {
		body = []string{gridHintStyle.Render(truncate.StringWithTail(sec.Hint, uint(innerW), "…"))}
	}
	content := header + "\n" + strings.Join(body, "\n")
	return gridBoxStyle.Width(innerW + 2).Height(innerH).Render(content)
}

// wrapLines word-wraps s to width, hard-wrapping words (and CJK runs) that do
// not fit, and keeps at most maxLines lines, marking the cut with an ellipsis.
func wrapLines(s string, width, maxLines int) []string {
	wrapped := wrap.String(wordwrap.String(s, width), width)
	lines := strings.Split(wrapped, "\n")
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := strings.TrimRight(lines[maxLines-1], " ")
		if lipgloss.Width(last) >= width {
			last = truncate.String(last, uint(width-1))
		}
		lines[maxLines-1] = last + "…"
	}
	return lines
}

// WriteGrid writes RenderGrid output to w.
func WriteGrid(w io.Writer, r canvas.Record, width int) error {
	_, err := io.WriteString(w, RenderGrid(r, width))
	return err
}
