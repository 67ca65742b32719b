package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

func sample() canvas.Record {
	r := canvas.Empty()
	r.ProductName = "Acme"
	r.Problem = "slow onboarding\nno <docs>"
	r.CostStructure = "servers"
	r.RevenueStreams = "subscriptions"
	return r
}

func TestLayoutCoversGridOnce(t *testing.T) {
	var hits [GridCols][GridRows]int
	seen := map[canvas.Field]bool{}
	for _, c := range Layout {
		require.False(t, seen[c.Field], "duplicate %s", c.Field)
		seen[c.Field] = true
		for col := c.Col; col < c.Col+c.ColSpan; col++ {
			for row := c.Row; row < c.Row+c.RowSpan; row++ {
				hits[col][row]++
			}
		}
	}
	for col := 0; col < GridCols; col++ {
		for row := 0; row < GridRows; row++ {
			assert.Equal(t, 1, hits[col][row], "cell %d,%d", col, row)
		}
	}
	assert.Len(t, seen, len(canvas.Sections()))
}

func TestColumns(t *testing.T) {
	top, bottom := Columns()
	require.Len(t, top, 5)
	for _, col := range top {
		assert.Len(t, col, 2)
	}
	assert.Equal(t, canvas.Problem, top[0][0].Field)
	assert.Equal(t, canvas.EarlyAdopters, top[4][1].Field)
	require.Len(t, bottom, 2)
	assert.Equal(t, canvas.CostStructure, bottom[0].Field)
	assert.Equal(t, canvas.RevenueStreams, bottom[1].Field)
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"md": FormatMarkdown, "Markdown": FormatMarkdown, ".png": FormatPNG,
		"slides": FormatPPTX, "pptx": FormatPPTX, "print": FormatHTML, " json ": FormatJSON,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	r := sample()
	assert.Equal(t, "Acme-lean-canvas.md", Filename(FormatMarkdown, r, now))
	assert.Equal(t, "lean-canvas-2024-03-05T14-07-09.png", Filename(FormatPNG, r, now))
	assert.Equal(t, "Acme-lean-canvas.pptx", Filename(FormatPPTX, r, now))
	assert.Equal(t, "lean-canvas.html", Filename(FormatHTML, canvas.Empty(), now))
}

func TestMarkdownMatchesCodec(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, sample()))
	assert.Equal(t, mdcodec.Serialize(sample()), buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sample(), Options{}))
	var got canvas.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample(), got)
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(io.Discard, Format("doc"), sample(), Options{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

// withSystemFonts swaps the system font candidates for the test.
func withSystemFonts(t *testing.T, paths ...string) {
	t.Helper()
	saved := systemFonts
	systemFonts = paths
	t.Cleanup(func() { systemFonts = saved })
}

func TestPNGBuiltinFont(t *testing.T) {
	withSystemFonts(t)
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, sample(), PNGOptions{Scale: 2, Width: 600, Height: 400}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 800, img.Bounds().Dy())
}

func TestPNGDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, canvas.Empty(), PNGOptions{}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2400, img.Bounds().Dx())
}

func TestPNGWarnsWithoutCJKFont(t *testing.T) {
	withSystemFonts(t)
	var logs bytes.Buffer
	opts := PNGOptions{Log: log.New(&logs, "", 0)}

	require.NoError(t, PNG(io.Discard, sample(), opts))
	assert.Empty(t, logs.String())

	r := sample()
	r.ProductName = "リーンキャンバス"
	require.NoError(t, PNG(io.Discard, r, opts))
	assert.Contains(t, logs.String(), "export.font_path")
}

func TestPNGSkipsUnusableSystemFont(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.ttc")
	require.NoError(t, os.WriteFile(broken, []byte("not a font"), 0o644))
	withSystemFonts(t, filepath.Join(dir, "missing.ttc"), broken)

	var logs bytes.Buffer
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, sample(), PNGOptions{Width: 300, Height: 200, Log: log.New(&logs, "", 0)}))
	assert.Contains(t, logs.String(), "skipping system font")
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
}

func TestPNGBadFont(t *testing.T) {
	err := PNG(io.Discard, sample(), PNGOptions{FontPath: filepath.Join(t.TempDir(), "missing.ttf")})
	assert.Error(t, err)
}

func TestWrapText(t *testing.T) {
	face := mustBasicFace()
	lines := wrapText(face, "alpha beta gamma delta", 7*11)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 11, l)
	}
	assert.Equal(t, "alpha beta gamma delta", strings.Join(lines, " "))
	assert.Equal(t, []string{"a", "", "b"}, wrapText(face, "a\n\nb", 100))
}

func TestPPTXStructure(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, PPTX(&buf, sample(), SlideOptions{AccentColor: "#ff0000", Now: now}))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(b)
	}
	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "ppt/presentation.xml",
		"ppt/slides/slide1.xml", "ppt/slideLayouts/slideLayout1.xml",
		"ppt/slideMasters/slideMaster1.xml", "ppt/theme/theme1.xml", "docProps/core.xml",
	} {
		assert.Contains(t, files, name)
	}

	slide := files["ppt/slides/slide1.xml"]
	assert.Contains(t, slide, "Acme")
	assert.Contains(t, slide, `gridSpan="5"`)
	assert.Contains(t, slide, `rowSpan="3"`)
	assert.Contains(t, slide, `hMerge="1"`)
	assert.Contains(t, slide, `vMerge="1"`)
	assert.Contains(t, slide, `val="ff0000"`)
	assert.Contains(t, slide, "no &lt;docs&gt;")
	assert.Equal(t, GridRows, strings.Count(slide, "<a:tr "))
	assert.Equal(t, GridRows*GridCols, strings.Count(slide, "</a:tc>"))
	assert.Contains(t, files["docProps/core.xml"], "2024-01-02T03:04:05Z")
}

func TestPPTXInvalidAccentFallsBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PPTX(&buf, canvas.Empty(), SlideOptions{AccentColor: "blue"}))
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "ppt/slides/slide1.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		b, _ := io.ReadAll(rc)
		rc.Close()
		assert.Contains(t, string(b), `val="3B82F6"`)
		assert.Contains(t, string(b), mdcodec.FallbackTitle)
	}
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sample()))
	out := buf.String()
	assert.Contains(t, out, "<title>Acme</title>")
	for _, s := range canvas.Sections() {
		assert.Contains(t, out, s.Label)
	}
	assert.Contains(t, out, "slow onboarding<br>")
	assert.NotContains(t, out, "<docs>")
	assert.Contains(t, out, "grid-area: 1 / 1 / 4 / 3;")
	assert.Contains(t, out, "size: A4 landscape")
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "canvas.md")
	require.NoError(t, ToFile(path, FormatMarkdown, sample(), Options{}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, mdcodec.Serialize(sample()), string(b))
}

func TestToFileFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "canvas.png")
	opts := Options{PNG: PNGOptions{FontPath: filepath.Join(dir, "nope.ttf")}}
	require.Error(t, ToFile(path, FormatPNG, sample(), opts))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func mustBasicFace() font.Face { return basicfont.Face7x13 }
