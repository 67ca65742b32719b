package mdcodec

import (
	"strings"
	"unicode"
)

const (
	fileSuffix      = "-lean-canvas"
	defaultBaseName = "lean-canvas"
)

// ExportFilename names the Markdown export for productName.
func ExportFilename(productName string) string {
	return BaseName(productName) + ".md"
}

// BaseName returns "<name>-lean-canvas" with every rune outside ASCII word
// characters, whitespace and '-' removed and each whitespace run turned into
// one space, or "lean-canvas" when nothing is left.
func BaseName(productName string) string {
	var b strings.Builder
	for _, r := range productName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	name := strings.Join(strings.Fields(b.String()), " ")
	if name == "" {
		return defaultBaseName
	}
	return name + fileSuffix
}
