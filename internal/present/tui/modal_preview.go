package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/leancanvas/internal/present/format"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// previewModal shows the canvas rendered with Glamour inside a scrollable
// viewport.
type previewModal struct {
	vp      viewport.Model
	style   string
	padX    int
	padY    int
	innerW  int
	box     lipglossv2.Style
	rec     canvas.Record
	content string
}

func newPreviewModal(r canvas.Record, style string, termW, termH int) *previewModal {
	m := &previewModal{style: style, padX: 2, padY: 1, rec: r}
	m.resizeForTerm(termW, termH)
	return m
}

func (m *previewModal) resizeForTerm(termW, termH int) {
	w, h := modalSize(termW, termH, 0.7, 0.8, 40, 120, 10, 60)
	m.box = modalBox(w, h, m.padX, m.padY)

	innerW := max(10, w-2-m.padX*2)
	innerH := max(5, h-2-m.padY*2)
	if m.vp.Width == 0 {
		m.vp = viewport.New(innerW, innerH)
	} else {
		m.vp.Width = innerW
		m.vp.Height = innerH
	}
	if innerW != m.innerW || m.content == "" {
		m.innerW = innerW
		m.render()
	}
}

func (m *previewModal) render() {
	out, err := format.RenderPretty(m.rec, format.PrettyOptions{Style: m.style, Width: m.innerW})
	if err != nil {
		out = "preview failed: " + err.Error()
	}
	m.content = out
	m.vp.SetContent(out)
}

func (m *previewModal) update(msg tea.Msg) (*previewModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *previewModal) View() string { return m.box.Render(m.vp.View()) }
