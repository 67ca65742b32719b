package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// PrettyOptions picks the glamour style and wrap width.
type PrettyOptions struct {
	Style string
	Width int
}

func (o PrettyOptions) withDefaults() PrettyOptions {
	if strings.TrimSpace(o.Style) == "" {
		o.Style = "dracula"
	}
	if o.Width <= 0 {
		o.Width = 80
	}
	return o
}

// prettySource is the Markdown fed to glamour: the serialized document with
// each heading annotated by its English name and empty sections marked.
func prettySource(r canvas.Record) string {
	var b strings.Builder
	title := r.ProductName
	if title == "" {
		title = mdcodec.FallbackTitle
	}
	fmt.Fprintf(&b, "# %s\n", title)
	for _, s := range canvas.Sections() {
		fmt.Fprintf(&b, "\n## %s · %s\n\n", s.Label, s.Name)
		v := strings.TrimSpace(r.Get(s.Field))
		if v == "" {
			fmt.Fprintf(&b, "_%s_\n", s.Hint)
			continue
		}
		// Keep single newlines as line breaks.
		b.WriteString(strings.ReplaceAll(v, "\n", "  \n"))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderPretty returns the canvas rendered for the terminal using glamour.
func RenderPretty(r canvas.Record, opts PrettyOptions) (string, error) {
	opts = opts.withDefaults()
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(opts.Style),
		glamour.WithWordWrap(opts.Width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := tr.Render(prettySource(r))
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// WritePretty renders the canvas with markdown formatting using glamour.
func WritePretty(w io.Writer, r canvas.Record, opts PrettyOptions) error {
	out, err := RenderPretty(r, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
