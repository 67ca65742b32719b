package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

// renderOverlay composes a centered modal on top of the given base view string.
func (m model) renderOverlay(base, fg string) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	overlayW, overlayH := lipgloss.Width(fg), lipgloss.Height(fg)
	x := max(0, (termW-overlayW)/2)
	y := max(0, (termH-overlayH)/2)

	dimBase := lipgloss.NewStyle().Faint(true).Render(base)
	baseLayer := lipgloss.NewLayer(dimBase).
		Width(termW).
		Height(termH)
	fgLayer := lipgloss.NewLayer(fg).
		Width(overlayW).
		Height(overlayH).
		X(x).
		Y(y)

	return lipgloss.NewCanvas(baseLayer, fgLayer).Render()
}

// modalBox is the shared frame of every modal.
func modalBox(w, h, padX, padY int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(w).
		Height(h).
		Padding(padY, padX).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))
}

// modalSize picks a modal size from the terminal size: a share of it, clamped.
func modalSize(termW, termH int, wFrac, hFrac float64, minW, maxW, minH, maxH int) (int, int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * wFrac)
	if termW < 80 {
		w = termW - 4
	}
	w = min(max(w, minW), maxW)
	h := int(float64(termH) * hFrac)
	if termH < 20 {
		h = termH - 2
	}
	h = min(max(h, minH), maxH)
	return w, h
}
