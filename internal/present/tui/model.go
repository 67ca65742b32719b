package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/leancanvas/internal/editor"
	"github.com/mithrel/leancanvas/internal/export"
	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/internal/session"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// Session is the canvas state the editor works on.
type Session interface {
	Record() canvas.Record
	Dirty() bool
	Set(ctx context.Context, f canvas.Field, value string) error
	Import(ctx context.Context, r io.Reader) error
	ImportFile(ctx context.Context, path string) error
	Save(ctx context.Context) error
	Clear(ctx context.Context) error
}

// Options configures the interactive editor.
type Options struct {
	Export       export.Options
	ExportDir    string
	PrintCommand string
	Style        string
}

// Run opens the full-screen canvas editor until the user quits.
func Run(ctx context.Context, s Session, opts Options) error {
	m := newModel(ctx, s, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

var (
	labelStyle        = lipgloss.NewStyle().Bold(true)
	labelFocusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	nameStyle         = lipgloss.NewStyle().Faint(true)
	errStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dirtyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cellStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	cellFocusedStyle  = cellStyle.BorderForeground(lipgloss.Color("63"))
)

type model struct {
	ctx  context.Context
	sess Session
	opts Options
	keys keyMap
	help help.Model

	sections []canvas.Section
	title    textinput.Model
	areas    []textarea.Model
	// focus is 0 for the product name, i+1 for areas[i].
	focus int

	width  int
	height int

	status    string
	statusErr bool
	showHelp  bool

	prompt  *promptModal
	confirm *confirmModal
	preview *previewModal
}

func newModel(ctx context.Context, s Session, opts Options) model {
	m := model{
		ctx:      ctx,
		sess:     s,
		opts:     opts,
		keys:     defaultKeyMap(),
		help:     help.New(),
		sections: canvas.Sections(),
	}
	m.title = textinput.New()
	m.title.Prompt = ""
	m.title.Placeholder = canvas.ProductNameHint
	m.title.CharLimit = 0
	for _, sec := range m.sections {
		ta := textarea.New()
		ta.Placeholder = sec.Hint
		ta.ShowLineNumbers = false
		ta.Prompt = ""
		ta.CharLimit = 0
		ta.MaxHeight = 0
		m.areas = append(m.areas, ta)
	}
	m.syncFromRecord()
	m.setFocus(0)
	m.applyLayout()
	return m
}

func (m model) Init() tea.Cmd { return textinput.Blink }

// syncFromRecord reloads every input from the session record.
func (m *model) syncFromRecord() {
	r := m.sess.Record()
	m.title.SetValue(r.ProductName)
	for i, sec := range m.sections {
		m.areas[i].SetValue(r.Get(sec.Field))
	}
}

func (m *model) fieldAt(idx int) canvas.Field {
	if idx == 0 {
		return canvas.ProductName
	}
	return m.sections[idx-1].Field
}

func (m *model) setFocus(idx int) tea.Cmd {
	n := len(m.areas) + 1
	idx = ((idx % n) + n) % n
	m.focus = idx
	var cmd tea.Cmd
	if idx == 0 {
		cmd = m.title.Focus()
	} else {
		m.title.Blur()
	}
	for i := range m.areas {
		if i+1 == idx {
			cmd = m.areas[i].Focus()
		} else {
			m.areas[i].Blur()
		}
	}
	return cmd
}

func (m *model) focusedValue() string {
	if m.focus == 0 {
		return m.title.Value()
	}
	return m.areas[m.focus-1].Value()
}

func (m *model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *model) setResult(ok string, err error, dur time.Duration) {
	switch {
	case err == nil && dur > 0:
		m.setStatus(fmt.Sprintf("%s (%s)", ok, dur.Round(time.Millisecond)), false)
	case err == nil:
		m.setStatus(ok, false)
	case errors.Is(err, session.ErrPersist):
		// The in-memory change stands; only storage failed.
		m.setStatus(fmt.Sprintf("%s, but not saved: %v", ok, err), true)
	default:
		m.setStatus(err.Error(), true)
	}
}

func (m model) exportPath(f export.Format) string {
	dir := m.opts.ExportDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, export.Filename(f, m.sess.Record(), time.Now()))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.applyLayout()
		if m.prompt != nil {
			m.prompt.resizeForTerm(msg.Width, msg.Height)
		}
		if m.confirm != nil {
			m.confirm.resizeForTerm(msg.Width, msg.Height)
		}
		if m.preview != nil {
			m.preview.resizeForTerm(msg.Width, msg.Height)
		}
		return m, nil
	case importResultMsg:
		m.syncFromRecord()
		m.setResult("Imported "+msg.path, msg.err, msg.dur)
		return m, nil
	case exportResultMsg:
		m.setResult(fmt.Sprintf("Exported %s to %s", msg.format, msg.path), msg.err, msg.dur)
		return m, nil
	case saveResultMsg:
		m.setResult("Saved", msg.err, msg.dur)
		return m, nil
	case clearResultMsg:
		m.syncFromRecord()
		m.setResult("Cleared", msg.err, 0)
		return m, nil
	case printResultMsg:
		m.setResult("Opened print page "+msg.path, msg.err, 0)
		return m, nil
	case editDoneMsg:
		changed, err := finishEdit(m.ctx, m.sess, msg)
		m.syncFromRecord()
		if err == nil && !changed {
			m.setStatus("No changes from editor", false)
			return m, nil
		}
		m.setResult("Merged editor changes", err, 0)
		return m, nil
	case tea.KeyMsg:
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		if m.preview != nil {
			switch msg.String() {
			case "esc", "q", "ctrl+p", "ctrl+c":
				m.preview = nil
				return m, nil
			}
			var cmd tea.Cmd
			m.preview, cmd = m.preview.update(msg)
			return m, cmd
		}
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus(m.focus - 1)
		case key.Matches(msg, m.keys.Save):
			m.setStatus("Saving…", false)
			return m, saveCmd(m.ctx, m.sess)
		case key.Matches(msg, m.keys.Import):
			m.prompt = newImportPrompt(m.width, m.height)
			return m, m.prompt.focus()
		case key.Matches(msg, m.keys.Export):
			m.prompt = newExportPrompt(m.exportPath, m.width, m.height)
			return m, m.prompt.focus()
		case key.Matches(msg, m.keys.Clear):
			m.confirm = newConfirmModal("Clear every field of the canvas? This cannot be undone.", m.width, m.height)
			return m, nil
		case key.Matches(msg, m.keys.Preview):
			m.preview = newPreviewModal(m.sess.Record(), m.opts.Style, m.width, m.height)
			return m, nil
		case key.Matches(msg, m.keys.Print):
			m.setStatus("Preparing print page…", false)
			return m, printCmd(m.ctx, m.sess, m.opts.PrintCommand)
		case key.Matches(msg, m.keys.Edit):
			r := m.sess.Record()
			path, err := editor.PathFor(r.ProductName)
			if err != nil {
				m.setStatus(err.Error(), true)
				return m, nil
			}
			return m, editCmd(path, []byte(mdcodec.Serialize(r)))
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		}
	}
	return m.updateFocused(msg)
}

// updateFocused feeds msg to the focused input and stores a changed value.
func (m model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	// Only widget edits reach the session. The record may have moved ahead
	// of the widgets while an import or clear result is in flight.
	before := m.focusedValue()
	if m.focus == 0 {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.areas[m.focus-1], cmd = m.areas[m.focus-1].Update(msg)
	}
	f := m.fieldAt(m.focus)
	if v := m.focusedValue(); v != before {
		if err := m.sess.Set(m.ctx, f, v); err != nil {
			m.setResult("Edited", err, 0)
		} else if m.statusErr {
			m.setStatus("", false)
		}
	}
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.confirm = nil
		return m, clearCmd(m.ctx, m.sess)
	case "n", "esc", "ctrl+c", "enter":
		m.confirm = nil
		m.setStatus("Clear cancelled", false)
	}
	return m, nil
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.prompt = nil
		return m, nil
	case "enter":
		p := m.prompt
		m.prompt = nil
		path := p.path()
		if path == "" {
			m.setStatus(errNoPath.Error(), true)
			return m, nil
		}
		if p.kind == promptImport {
			m.setStatus("Importing…", false)
			return m, importCmd(m.ctx, m.sess, path)
		}
		m.setStatus("Exporting…", false)
		return m, exportCmd(m.sess, m.opts, p.selectedFormat(), path)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.update(msg)
	return m, cmd
}
