package present

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/mithrel/leancanvas/internal/present/format"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeYAML
	ModeGrid
	ModeTUI
)

var ErrInteractive = errors.New("tui output is interactive; run leancanvas without arguments")

type Options struct {
	Mode       Mode
	JSONIndent bool
	Style      string
	Width      int
}

// ParseMode parses a string like "plain", "pretty", "json", "yaml", "grid", "tui".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "md", "markdown":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "yaml", "yml":
		return ModeYAML, true
	case "grid":
		return ModeGrid, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// Modes lists the names accepted by ParseMode, for help and completion.
func Modes() []string {
	return []string{"plain", "pretty", "json", "yaml", "grid"}
}

// RenderRecord renders the canvas according to options.
func RenderRecord(_ context.Context, w io.Writer, r canvas.Record, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, r, opts.JSONIndent)
	case ModeYAML:
		return format.WriteYAML(w, r)
	case ModePretty:
		return format.WritePretty(w, r, format.PrettyOptions{Style: opts.Style, Width: opts.Width})
	case ModeGrid:
		return format.WriteGrid(w, r, opts.Width)
	case ModeTUI:
		return ErrInteractive
	default:
		return format.WritePlain(w, r)
	}
}
