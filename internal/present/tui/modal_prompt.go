package tui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/leancanvas/internal/export"
)

type promptKind int

const (
	promptImport promptKind = iota
	promptExport
)

var promptFormats = []export.Format{export.FormatMarkdown, export.FormatPNG, export.FormatPPTX, export.FormatHTML}

// promptModal asks for a file path, and for exports also the format.
type promptModal struct {
	kind   promptKind
	input  textinput.Model
	format int
	// defaultPath maps a format to the path used when the input is empty.
	defaultPath func(export.Format) string
	width       int
	height      int
	padX        int
	padY        int
	box         lipglossv2.Style
}

func newImportPrompt(termW, termH int) *promptModal {
	m := &promptModal{kind: promptImport, padX: 2, padY: 1}
	m.input = textinput.New()
	m.input.Prompt = "file: "
	m.input.Placeholder = "lean-canvas.md"
	m.resizeForTerm(termW, termH)
	return m
}

func newExportPrompt(defaultPath func(export.Format) string, termW, termH int) *promptModal {
	m := &promptModal{kind: promptExport, padX: 2, padY: 1, defaultPath: defaultPath}
	m.input = textinput.New()
	m.input.Prompt = "path: "
	m.refreshPlaceholder()
	m.resizeForTerm(termW, termH)
	return m
}

func (m *promptModal) focus() tea.Cmd { return m.input.Focus() }

func (m *promptModal) resizeForTerm(termW, termH int) {
	w, h := modalSize(termW, termH, 0.6, 0.3, 42, 90, 9, 12)
	m.width, m.height = w, h
	m.box = modalBox(w, h, m.padX, m.padY)
	innerW := w - 2 - m.padX*2
	m.input.Width = max(12, innerW-lipgloss.Width(m.input.Prompt)-1)
}

func (m *promptModal) refreshPlaceholder() {
	if m.defaultPath != nil {
		m.input.Placeholder = m.defaultPath(m.selectedFormat())
	}
}

func (m *promptModal) selectedFormat() export.Format {
	return promptFormats[m.format]
}

// path returns the entered path, the default when empty, with ~ expanded.
func (m *promptModal) path() string {
	p := strings.TrimSpace(m.input.Value())
	if p == "" && m.kind == promptExport {
		p = m.input.Placeholder
	}
	return expandHome(p)
}

func (m *promptModal) update(msg tea.Msg) (*promptModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		if m.kind == promptExport {
			switch x.String() {
			case "tab":
				m.format = (m.format + 1) % len(promptFormats)
				m.refreshPlaceholder()
				return m, nil
			case "shift+tab":
				m.format = (m.format + len(promptFormats) - 1) % len(promptFormats)
				m.refreshPlaceholder()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *promptModal) View() string {
	title := "Import Markdown"
	help := "enter=import • esc=cancel"
	if m.kind == promptExport {
		title = "Export"
		help = "enter=export • tab=format • esc=cancel"
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(title), ""}
	if m.kind == promptExport {
		var opts []string
		for i, f := range promptFormats {
			s := string(f)
			if i == m.format {
				s = lipgloss.NewStyle().Reverse(true).Render(" " + s + " ")
			} else {
				s = " " + s + " "
			}
			opts = append(opts, s)
		}
		lines = append(lines, "format: "+strings.Join(opts, " "), "")
	}
	lines = append(lines, m.input.View(), "", lipgloss.NewStyle().Faint(true).Render(help))
	return m.box.Render(strings.Join(lines, "\n"))
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := userHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
