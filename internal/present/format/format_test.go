package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

func sample() canvas.Record {
	return canvas.Record{
		ProductName:      "Acme",
		Problem:          "slow onboarding\nmanual\tsteps",
		CustomerSegments: "SMBs",
	}
}

func TestWritePlainIsSerializedDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlain(&buf, sample()))
	assert.Equal(t, mdcodec.Serialize(sample()), buf.String())
}

func TestWriteFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFields(&buf, sample(), true))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 14)
	assert.True(t, strings.HasPrefix(lines[0], "field"))
	assert.True(t, strings.HasPrefix(lines[1], "productName"))
	assert.Contains(t, lines[1], "Acme")
	assert.Contains(t, lines[2], `slow onboarding\nmanual\tsteps`)
	assert.Contains(t, lines[2], "課題")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample(), true))
	assert.Contains(t, buf.String(), "\n  \"productName\": \"Acme\"")
	var got canvas.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample(), got)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sample()))
	assert.Contains(t, buf.String(), "productName: Acme")
	var got canvas.Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample(), got)
}

func TestPrettySource(t *testing.T) {
	src := prettySource(canvas.Record{Problem: "a\nb"})
	assert.True(t, strings.HasPrefix(src, "# "+mdcodec.FallbackTitle+"\n"))
	assert.Contains(t, src, "## 課題 · Problem")
	assert.Contains(t, src, "a  \nb")
	assert.Contains(t, src, "_ターゲット顧客_")
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePretty(&buf, sample(), PrettyOptions{Style: "notty", Width: 60}))
	out := buf.String()
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Customer Segments")
	assert.Contains(t, out, "SMBs")
}

func TestRenderGrid(t *testing.T) {
	out := RenderGrid(sample(), 150)
	for _, s := range canvas.Sections() {
		assert.Contains(t, out, s.Label)
	}
	assert.Contains(t, out, "SMBs")
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 150, line)
	}
}

func TestRenderGridNarrowTruncatesLabels(t *testing.T) {
	out := RenderGrid(canvas.Empty(), 10)
	assert.Contains(t, out, mdcodec.FallbackTitle)
	assert.Contains(t, out, "…")
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n")[1:] {
		assert.LessOrEqual(t, lipgloss.Width(line), 60, line)
	}
}

func TestWrapLinesTruncates(t *testing.T) {
	lines := wrapLines("one two three four five six seven", 9, 2)
	require.Len(t, lines, 2)
	assert.Equal(t, "one two", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "…"))
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 9)
	}
}

func TestWrapLinesHardWrapsCJK(t *testing.T) {
	lines := wrapLines("あいうえおかきくけこ", 6, 10)
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 6, l)
	}
	assert.Equal(t, "あいうえおかきくけこ", strings.Join(lines, ""))
}
