package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// newGoldmarkEngine renders cell bodies: GFM, hard wraps so single newlines
// survive, raw HTML dropped.
func newGoldmarkEngine() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
}

type htmlCell struct {
	Label   string
	Name    string
	Area    template.CSS
	Body    template.HTML
	IsEmpty bool
	Hint    string
}

type htmlPage struct {
	Title string
	Cols  int
	Rows  int
	Cells []htmlCell
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: A4 landscape; margin: 10mm; }
body { font-family: "Hiragino Sans", "Yu Gothic", "Noto Sans CJK JP", sans-serif; margin: 0; padding: 16px; color: #212529; }
h1 { font-size: 22px; margin: 0 0 12px; }
.lean-canvas { display: grid; grid-template-columns: repeat({{.Cols}}, 1fr); grid-template-rows: repeat({{.Rows}}, minmax(90px, auto)); border: 2px solid #333; }
.canvas-cell { border: 1px solid #333; padding: 6px 8px; overflow: hidden; }
.cell-header { font-weight: bold; font-size: 13px; background: #f1f3f5; margin: -6px -8px 6px; padding: 4px 8px; }
.cell-header small { font-weight: normal; color: #868e96; margin-left: 4px; }
.cell-body { font-size: 12px; }
.cell-body p { margin: 0 0 4px; }
.cell-hint { color: #adb5bd; font-size: 12px; }
@media print { body { padding: 0; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="lean-canvas">
{{- range .Cells}}
<section class="canvas-cell" style="{{.Area}}">
<div class="cell-header">{{.Label}}<small>{{.Name}}</small></div>
{{- if .IsEmpty}}
<div class="cell-hint">{{.Hint}}</div>
{{- else}}
<div class="cell-body">{{.Body}}</div>
{{- end}}
</section>
{{- end}}
</div>
</body>
</html>
`))

// HTML writes a standalone printable page of the canvas grid.
func HTML(w io.Writer, r canvas.Record) error {
	md := newGoldmarkEngine()
	title := r.ProductName
	if title == "" {
		title = mdcodec.FallbackTitle
	}
	page := htmlPage{
		Title: title,
		Cols:  GridCols,
		Rows:  GridRows,
	}
	for _, c := range Layout {
		sec, _ := canvas.SectionFor(c.Field)
		cell := htmlCell{
			Label: sec.Label,
			Name:  sec.Name,
			Hint:  sec.Hint,
			// row-start / col-start / row-end / col-end
			Area: template.CSS(fmt.Sprintf("grid-area: %d / %d / %d / %d;", c.Row+1, c.Col+1, c.Row+c.RowSpan+1, c.Col+c.ColSpan+1)),
		}
		value := r.Get(c.Field)
		if value == "" {
			cell.IsEmpty = true
		} else {
			var buf bytes.Buffer
			if err := md.Convert([]byte(value), &buf); err != nil {
				return fmt.Errorf("markdown render: %w", err)
			}
			cell.Body = template.HTML(buf.String())
		}
		page.Cells = append(page.Cells, cell)
	}
	return pageTmpl.Execute(w, page)
}
