// Package export writes the canvas to files: Markdown, PNG, PPTX slides,
// printable HTML and raw JSON.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatPNG      Format = "png"
	FormatPPTX     Format = "pptx"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatPNG, FormatPPTX, FormatHTML, FormatJSON}
}

// ParseFormat accepts a format name or a common extension alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "png":
		return FormatPNG, nil
	case "pptx", "slides", "slide":
		return FormatPPTX, nil
	case "html", "print":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w %q (want one of md, png, pptx, html, json)", ErrUnknownFormat, s)
}

// Options carries per-format settings.
type Options struct {
	PNG   PNGOptions
	Slide SlideOptions
}

// Filename returns the default download name for r in format f.
func Filename(f Format, r canvas.Record, now time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	switch f {
	case FormatMarkdown:
		return mdcodec.ExportFilename(r.ProductName)
	case FormatPNG:
		return "lean-canvas-" + now.UTC().Format("2006-01-02T15-04-05") + ".png"
	default:
		return mdcodec.BaseName(r.ProductName) + "." + string(f)
	}
}

// Write renders r in format f to w.
func Write(w io.Writer, f Format, r canvas.Record, opts Options) error {
	switch f {
	case FormatMarkdown:
		return Markdown(w, r)
	case FormatPNG:
		return PNG(w, r, opts.PNG)
	case FormatPPTX:
		return PPTX(w, r, opts.Slide)
	case FormatHTML:
		return HTML(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, string(f))
}

// Markdown writes the serialized canvas document.
func Markdown(w io.Writer, r canvas.Record) error {
	_, err := io.WriteString(w, mdcodec.Serialize(r))
	return err
}

// ToFile renders r into path. Output goes to a temp file first and is renamed
// into place only after rendering succeeded.
func ToFile(path string, f Format, r canvas.Record, opts Options) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".leancanvas-export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := Write(bw, f, r, opts); err != nil {
		tmp.Close()
		return fmt.Errorf("%s export: %w", f, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
