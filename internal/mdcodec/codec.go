// Package mdcodec converts a canvas record to and from its Markdown document.
//
// The document is a single level-1 heading carrying the product name followed
// by one level-2 section per canvas field:
//
//	# Acme
//
//	## 課題
//	Too few signups
//
//	## 代替品
//	...
//
// Parsing is permissive: unknown headings and stray text are dropped and it
// never fails. Blank lines inside a section body are not preserved.
package mdcodec

import (
	"io"
	"strings"

	"github.com/mithrel/leancanvas/pkg/canvas"
)

const (
	// FallbackTitle is written when the product name is empty.
	FallbackTitle = "リーンキャンバス"

	titlePrefix   = "# "
	sectionPrefix = "## "
)

// Serialize renders r as a Markdown document. It cannot fail.
func Serialize(r canvas.Record) string {
	var b strings.Builder
	title := r.ProductName
	if title == "" {
		title = FallbackTitle
	}
	b.WriteString(titlePrefix)
	b.WriteString(title)
	b.WriteString("\n")
	for _, s := range canvas.Sections() {
		b.WriteString("\n")
		b.WriteString(sectionPrefix)
		b.WriteString(s.Label)
		b.WriteString("\n")
		b.WriteString(r.Get(s.Field))
		b.WriteString("\n")
	}
	return b.String()
}

// Parse merges the document text into base. Fields without a matching
// section keep their value from base.
func Parse(base canvas.Record, text string) canvas.Record {
	out := base
	var (
		label   string
		inBlock bool
		body    []string
	)
	flush := func() {
		if !inBlock {
			return
		}
		f, ok := canvas.FieldForLabel(label)
		if !ok {
			return
		}
		out, _ = out.Set(f, strings.TrimSpace(strings.Join(body, "\n")))
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, titlePrefix):
			out.ProductName = strings.TrimSpace(line[len(titlePrefix):])
		case strings.HasPrefix(line, sectionPrefix):
			flush()
			label = strings.TrimSpace(line[len(sectionPrefix):])
			inBlock = true
			body = body[:0]
		case inBlock && strings.TrimSpace(line) != "":
			body = append(body, line)
		}
	}
	flush()
	return out
}

// ParseReader reads the whole document from rd and merges it into base.
// Only read errors are reported; base is returned unchanged with them.
func ParseReader(base canvas.Record, rd io.Reader) (canvas.Record, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return base, err
	}
	return Parse(base, string(data)), nil
}
