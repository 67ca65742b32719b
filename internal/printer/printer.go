// Package printer hands a printable rendering of the canvas to the system
// viewer, whose print dialog does the rest.
package printer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mithrel/leancanvas/internal/export"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// Dir is where print pages are written.
func Dir() string {
	return filepath.Join(os.TempDir(), "leancanvas-print")
}

// Command builds the opener invocation for path. A configured command runs
// through the shell so flags are honored; otherwise the platform opener is used.
func Command(ctx context.Context, command, path string) *exec.Cmd {
	if strings.TrimSpace(command) != "" {
		cmd := exec.CommandContext(ctx, "sh", "-c", "$PRINTCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "PRINTCMD="+command, "FILEPATH="+path)
		return cmd
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", path)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return exec.CommandContext(ctx, "xdg-open", path)
	}
}

// Print writes the HTML page for r into dir and opens it. The page path is
// returned even when the opener fails so callers can point the user at it.
func Print(ctx context.Context, r canvas.Record, command, dir string) (string, error) {
	if dir == "" {
		dir = Dir()
	}
	path := filepath.Join(dir, export.Filename(export.FormatHTML, r, time.Now()))
	if err := export.ToFile(path, export.FormatHTML, r, export.Options{}); err != nil {
		return "", err
	}
	cmd := Command(ctx, command, path)
	if out, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return path, fmt.Errorf("open %s: %w: %s", path, err, msg)
		}
		return path, fmt.Errorf("open %s: %w", path, err)
	}
	return path, nil
}
