package tui

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/leancanvas/internal/db"
	"github.com/mithrel/leancanvas/internal/session"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

func newTestModel(t *testing.T, rec canvas.Record) (model, *session.Session, *db.MemStore) {
	t.Helper()
	ctx := context.Background()
	store := db.NewMemStore()
	s, err := session.New(ctx, store, log.New(io.Discard, "", 0), session.Options{AutoSave: true})
	require.NoError(t, err)
	if rec != canvas.Empty() {
		require.NoError(t, s.Replace(ctx, rec))
	}
	m := newModel(ctx, s, Options{ExportDir: t.TempDir()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(model), s, store
}

func send(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func typeText(t *testing.T, m model, s string) model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// run executes cmd and feeds its message back, as the runtime would.
func run(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	return m
}

func TestTypingUpdatesSession(t *testing.T) {
	m, s, store := newTestModel(t, canvas.Empty())

	m = typeText(t, m, "Acme")
	assert.Equal(t, "Acme", s.Record().ProductName)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focus)
	m = typeText(t, m, "first")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(t, m, "second")
	assert.Equal(t, "first\nsecond", s.Record().Problem)
	assert.False(t, s.Dirty())

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", stored.Problem)
}

func TestFocusWraps(t *testing.T) {
	m, _, _ := newTestModel(t, canvas.Empty())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(canvas.Sections()), m.focus)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.focus)
}

func TestViewShowsGrid(t *testing.T) {
	m, _, _ := newTestModel(t, canvas.Record{ProductName: "Acme", Channels: "web shop"})
	out := m.View()
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "web shop")
	assert.Contains(t, out, "saved")
}

func TestClearAsksFirst(t *testing.T) {
	m, s, _ := newTestModel(t, canvas.Record{ProductName: "Acme", Problem: "p"})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, m.confirm)
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Nil(t, cmd)
	assert.Nil(t, m.confirm)
	assert.Equal(t, "Acme", s.Record().ProductName)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = run(t, m, cmd)
	assert.Equal(t, canvas.Empty(), s.Record())
	assert.Equal(t, "", m.title.Value())
	assert.Equal(t, "", m.areas[0].Value())
	assert.Equal(t, "Cleared", m.status)
}

func TestImportPrompt(t *testing.T) {
	m, s, _ := newTestModel(t, canvas.Record{Channels: "web"})
	path := filepath.Join(t.TempDir(), "in.md")
	require.NoError(t, os.WriteFile(path, []byte("# Imported\n\n## 課題\nfrom file\n"), 0o644))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.NotNil(t, m.prompt)
	m = typeText(t, m, path)
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.prompt)
	m = run(t, m, cmd)

	r := s.Record()
	assert.Equal(t, "Imported", r.ProductName)
	assert.Equal(t, "from file", r.Problem)
	assert.Equal(t, "web", r.Channels)
	assert.Equal(t, "Imported", m.title.Value())
	assert.False(t, m.statusErr)
}

func TestKeyBeforeClearResultKeepsClear(t *testing.T) {
	m, s, store := newTestModel(t, canvas.Record{ProductName: "Acme"})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	msg := cmd()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = send(t, m, msg)

	assert.Equal(t, canvas.Empty(), s.Record())
	assert.Equal(t, "", m.title.Value())
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestKeyBeforeImportResultKeepsImport(t *testing.T) {
	m, s, store := newTestModel(t, canvas.Empty())
	path := filepath.Join(t.TempDir(), "in.md")
	require.NoError(t, os.WriteFile(path, []byte("# Imported\n"), 0o644))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m = typeText(t, m, path)
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = send(t, m, msg)

	assert.Equal(t, "Imported", s.Record().ProductName)
	assert.Equal(t, "Imported", m.title.Value())
	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Imported", stored.ProductName)
}

func TestImportMissingFileKeepsRunning(t *testing.T) {
	m, s, _ := newTestModel(t, canvas.Record{ProductName: "Keep"})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m = typeText(t, m, filepath.Join(t.TempDir(), "missing.md"))
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)
	assert.True(t, m.statusErr)
	assert.Equal(t, "Keep", s.Record().ProductName)
}

func TestExportPromptDefaultPath(t *testing.T) {
	m, _, _ := newTestModel(t, canvas.Record{ProductName: "Acme"})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	require.NotNil(t, m.prompt)
	assert.Equal(t, filepath.Join(m.opts.ExportDir, "Acme-lean-canvas.md"), m.prompt.path())

	// tab cycles the format: md → png → pptx
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, filepath.Join(m.opts.ExportDir, "Acme-lean-canvas.pptx"), m.prompt.path())

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)
	assert.False(t, m.statusErr, m.status)
	assert.FileExists(t, filepath.Join(m.opts.ExportDir, "Acme-lean-canvas.pptx"))
}

func TestSave(t *testing.T) {
	m, _, store := newTestModel(t, canvas.Empty())
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = run(t, m, cmd)
	assert.Contains(t, m.status, "Saved")
	_, err := store.Load(context.Background())
	assert.NoError(t, err)
}

func TestPreviewOpensAndCloses(t *testing.T) {
	m, _, _ := newTestModel(t, canvas.Record{ProductName: "Acme"})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	require.NotNil(t, m.preview)
	assert.Contains(t, m.preview.content, "Acme")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.preview)
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t, canvas.Empty())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "ctrl+s")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.False(t, m.showHelp)
}

func TestEscQuits(t *testing.T) {
	m, _, _ := newTestModel(t, canvas.Empty())
	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEditorMerge(t *testing.T) {
	m, s, _ := newTestModel(t, canvas.Record{ProductName: "Acme", Solution: "old"})
	path := filepath.Join(t.TempDir(), "edit.md")
	initial := []byte("# Acme\n")
	require.NoError(t, os.WriteFile(path, []byte("# Acme\n\n## ソリューション\nnew\n"), 0o600))

	m, _ = send(t, m, editDoneMsg{path: path, initial: initial})
	assert.Equal(t, "new", s.Record().Solution)
	assert.Equal(t, "new", m.areas[m.areaIndex(canvas.Solution)].Value())
	assert.NoFileExists(t, path)
}
