package tui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/leancanvas/internal/editor"
	"github.com/mithrel/leancanvas/internal/export"
	"github.com/mithrel/leancanvas/internal/printer"
)

var userHomeDir = os.UserHomeDir

// importResultMsg conveys the outcome of importing a Markdown file.
type importResultMsg struct {
	path string
	err  error
	dur  time.Duration
}

// exportResultMsg conveys the outcome of writing an export file.
type exportResultMsg struct {
	path   string
	format export.Format
	err    error
	dur    time.Duration
}

type saveResultMsg struct {
	err error
	dur time.Duration
}

type clearResultMsg struct {
	err error
}

type printResultMsg struct {
	path string
	err  error
}

// editDoneMsg signals that the external editor exited.
type editDoneMsg struct {
	path    string
	initial []byte
	err     error
}

func importCmd(ctx context.Context, s Session, path string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := s.ImportFile(ctx, path)
		return importResultMsg{path: path, err: err, dur: time.Since(start)}
	}
}

func exportCmd(s Session, opts Options, f export.Format, path string) tea.Cmd {
	r := s.Record()
	return func() tea.Msg {
		start := time.Now()
		err := export.ToFile(path, f, r, opts.Export)
		return exportResultMsg{path: path, format: f, err: err, dur: time.Since(start)}
	}
}

func saveCmd(ctx context.Context, s Session) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := s.Save(ctx)
		return saveResultMsg{err: err, dur: time.Since(start)}
	}
}

func clearCmd(ctx context.Context, s Session) tea.Cmd {
	return func() tea.Msg {
		return clearResultMsg{err: s.Clear(ctx)}
	}
}

func printCmd(ctx context.Context, s Session, command string) tea.Cmd {
	r := s.Record()
	return func() tea.Msg {
		path, err := printer.Print(ctx, r, command, "")
		return printResultMsg{path: path, err: err}
	}
}

// editCmd suspends the program and runs the editor on path.
func editCmd(path string, initial []byte) tea.Cmd {
	if err := editor.PrepareAt(path, initial); err != nil {
		return func() tea.Msg { return editDoneMsg{path: path, err: err} }
	}
	c, err := editor.Command(path)
	if err != nil {
		return func() tea.Msg { return editDoneMsg{path: path, err: err} }
	}
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editDoneMsg{path: path, initial: initial, err: err}
	})
}

// finishEdit merges the edited file back and removes it.
func finishEdit(ctx context.Context, s Session, msg editDoneMsg) (changed bool, err error) {
	defer os.Remove(msg.path)
	if msg.err != nil {
		return false, msg.err
	}
	out, changed, err := editor.ReadBack(msg.path, msg.initial)
	if err != nil || !changed {
		return false, err
	}
	return true, s.Import(ctx, bytes.NewReader(out))
}

var errNoPath = errors.New("no file given")
