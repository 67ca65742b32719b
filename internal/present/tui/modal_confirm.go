package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

// confirmModal is a yes/no question; only y confirms.
type confirmModal struct {
	question string
	box      lipglossv2.Style
}

func newConfirmModal(question string, termW, termH int) *confirmModal {
	m := &confirmModal{question: question}
	m.resizeForTerm(termW, termH)
	return m
}

func (m *confirmModal) resizeForTerm(termW, termH int) {
	w, h := modalSize(termW, termH, 0.5, 0.2, 40, 70, 7, 9)
	m.box = modalBox(w, h, 2, 1)
}

func (m *confirmModal) View() string {
	body := strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render("Confirm"),
		"",
		m.question,
		"",
		lipgloss.NewStyle().Faint(true).Render("y=yes • n/esc=no"),
	}, "\n")
	return m.box.Render(body)
}
