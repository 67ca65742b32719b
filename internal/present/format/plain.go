package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// TSV columns: field, label, value
var headerLine = "field\tlabel\tvalue\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// WritePlain writes the serialized Markdown document.
func WritePlain(w io.Writer, r canvas.Record) error {
	_, err := io.WriteString(w, mdcodec.Serialize(r))
	return err
}

// WriteFields writes one aligned row per field.
func WriteFields(w io.Writer, r canvas.Record, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, f := range canvas.Fields() {
		label := canvas.LabelFor(f)
		if label == "" {
			label = f.DisplayName()
		}
		line := fmt.Sprintf("%s\t%s\t%s\n", f, esc(label), esc(r.Get(f)))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}
