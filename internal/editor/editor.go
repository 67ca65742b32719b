package editor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// Importer is the part of the session the editor round-trip needs.
type Importer interface {
	Record() canvas.Record
	Import(ctx context.Context, r io.Reader) error
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathFor returns the temp file path used to edit the canvas of productName.
func PathFor(productName string) (string, error) {
	name := mdcodec.BaseName(productName) + ".md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "leancanvas", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "leancanvas", "edit", name), nil
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// PrepareAt writes the initial content to the given path with secure perms.
func PrepareAt(path string, initial []byte) error {
	return writeFile0600(path, initial)
}

// Command builds the editor invocation for path without attaching stdio.
func Command(path string) (*exec.Cmd, error) {
	// Honor VISUAL/EDITOR including flags by running via a shell wrapper.
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	if strings.TrimSpace(ed) != "" {
		cmd := exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
		return cmd, nil
	}
	prog, err := PreferredEditor()
	if err != nil {
		return nil, err
	}
	return exec.Command(prog, path), nil
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	cmd, err := Command(path)
	if err != nil {
		return nil, false, err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	return ReadBack(path, initial)
}

// ReadBack reads the edited file and reports whether it differs from initial.
func ReadBack(path string, initial []byte) ([]byte, bool, error) {
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}

// Edit serializes the current canvas, lets the user edit it and merges the
// result back. The temp file is removed afterwards.
func Edit(ctx context.Context, s Importer) (changed bool, err error) {
	cur := s.Record()
	path, err := PathFor(cur.ProductName)
	if err != nil {
		return false, err
	}
	defer os.Remove(path)
	initial := []byte(mdcodec.Serialize(cur))
	out, changed, err := OpenAt(path, initial)
	if err != nil || !changed {
		return false, err
	}
	return true, s.Import(ctx, bytes.NewReader(out))
}
