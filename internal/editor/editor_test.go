package editor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

type fakeImporter struct {
	rec      canvas.Record
	imported []byte
}

func (f *fakeImporter) Record() canvas.Record { return f.rec }

func (f *fakeImporter) Import(_ context.Context, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.imported = b
	f.rec = mdcodec.Parse(f.rec, string(b))
	return nil
}

func TestPathForXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	p, err := PathFor("Acme")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "leancanvas", "Acme-lean-canvas.md"), p)

	p, err = PathFor("")
	require.NoError(t, err)
	assert.Equal(t, "lean-canvas.md", filepath.Base(p))
}

func TestPathForHomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("HOME", home)
	p, err := PathFor("x")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, filepath.Join(home, ".cache", "leancanvas", "edit")), p)
}

func TestPrepareAtSecurePerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "c.md")
	require.NoError(t, PrepareAt(path, []byte("# x\n")))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.md")
	require.NoError(t, os.WriteFile(path, []byte("same"), 0o600))
	out, changed, err := ReadBack(path, []byte("same"))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "same", string(out))

	_, changed, err = ReadBack(path, []byte("other"))
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestCommandUsesShellForEditorFlags(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "code --wait")
	cmd, err := Command("/tmp/c.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"sh", "-c", "$EDITORCMD \"$FILEPATH\""}, cmd.Args)
	assert.Contains(t, cmd.Env, "EDITORCMD=code --wait")
	assert.Contains(t, cmd.Env, "FILEPATH=/tmp/c.md")
}

func TestEditMergesChanges(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	// The "editor" rewrites the problem section in place.
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "sed -i s/oldproblem/newproblem/")

	f := &fakeImporter{rec: canvas.Record{ProductName: "Acme", Problem: "oldproblem", Channels: "web"}}
	changed, err := Edit(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "newproblem", f.rec.Problem)
	assert.Equal(t, "web", f.rec.Channels)

	p, _ := PathFor("Acme")
	_, statErr := os.Stat(p)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEditUnchangedSkipsImport(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("VISUAL", "true")
	f := &fakeImporter{rec: canvas.Record{ProductName: "Acme"}}
	changed, err := Edit(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Nil(t, f.imported)
}

func TestEditorFailureIsReturned(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("VISUAL", "false")
	f := &fakeImporter{}
	_, err := Edit(context.Background(), f)
	assert.Error(t, err)
	assert.Nil(t, f.imported)
}
