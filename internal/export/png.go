package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"strings"
	"unicode"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// PNGOptions controls the raster export.
type PNGOptions struct {
	// Scale multiplies the logical size; 2 gives a high-resolution image.
	Scale int
	// FontPath points at a TrueType/OpenType font or collection. Without one
	// a known system CJK font is tried, then the built-in ASCII face, which
	// titles sections with their English names.
	FontPath string
	// Width and Height are the logical canvas size in pixels.
	Width, Height int
	// Log receives font fallback warnings; nil discards them.
	Log *log.Logger
}

// systemFonts are CJK-capable fonts looked up when no font path is set.
var systemFonts = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/google-noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/opentype/ipafont-gothic/ipag.ttf",
	"/usr/share/fonts/truetype/fonts-japanese-gothic.ttf",
	"/System/Library/Fonts/ヒラギノ角ゴシック W3.ttc",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	`C:\Windows\Fonts\YuGothR.ttc`,
	`C:\Windows\Fonts\msgothic.ttc`,
}

func (o PNGOptions) withDefaults() PNGOptions {
	if o.Scale <= 0 {
		o.Scale = 2
	}
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	return o
}

var (
	colorBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorBorder     = color.RGBA{0x33, 0x33, 0x33, 0xff}
	colorHeaderFill = color.RGBA{0xf1, 0xf3, 0xf5, 0xff}
	colorText       = color.RGBA{0x21, 0x25, 0x29, 0xff}
	colorHint       = color.RGBA{0xad, 0xb5, 0xbd, 0xff}
)

type faceSet struct {
	title, header, body font.Face
	// unit is the pixel size of one logical pixel while drawing.
	unit int
	// upscale is applied after drawing (bitmap face only).
	upscale int
	// ascii is set for the built-in face, which has no CJK glyphs.
	ascii bool
}

func (o PNGOptions) logf(format string, args ...any) {
	if o.Log != nil {
		o.Log.Printf(format, args...)
	}
}

func loadFaces(o PNGOptions) (faceSet, error) {
	if strings.TrimSpace(o.FontPath) != "" {
		ft, err := parseFont(o.FontPath)
		if err != nil {
			return faceSet{}, err
		}
		return outlineFaces(ft, o.Scale)
	}
	for _, path := range systemFonts {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		ft, err := parseFont(path)
		if err == nil {
			var fs faceSet
			if fs, err = outlineFaces(ft, o.Scale); err == nil {
				o.logf("png: using system font %s", path)
				return fs, nil
			}
		}
		o.logf("png: skipping system font: %v", err)
	}
	f := basicfont.Face7x13
	return faceSet{title: f, header: f, body: f, unit: 1, upscale: o.Scale, ascii: true}, nil
}

// parseFont reads a single font or the first face of a TTC/OTC collection.
func parseFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	ft, err := coll.Font(0)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return ft, nil
}

func outlineFaces(ft *opentype.Font, scale int) (faceSet, error) {
	mk := func(size float64) (font.Face, error) {
		return opentype.NewFace(ft, &opentype.FaceOptions{
			Size:    size * float64(scale),
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	var err error
	fs := faceSet{unit: scale, upscale: 1}
	if fs.title, err = mk(24); err != nil {
		return faceSet{}, err
	}
	if fs.header, err = mk(14); err != nil {
		return faceSet{}, err
	}
	if fs.body, err = mk(12); err != nil {
		return faceSet{}, err
	}
	return fs, nil
}

func hasNonASCII(r canvas.Record) bool {
	for _, f := range canvas.Fields() {
		for _, c := range r.Get(f) {
			if c > unicode.MaxASCII {
				return true
			}
		}
	}
	return false
}

// PNG renders the canvas grid as a PNG image.
func PNG(w io.Writer, r canvas.Record, opts PNGOptions) error {
	opts = opts.withDefaults()
	faces, err := loadFaces(opts)
	if err != nil {
		return err
	}
	if faces.ascii && hasNonASCII(r) {
		opts.logf("png: no CJK font found, non-ASCII text will render as boxes; set export.font_path")
	}
	img := renderGrid(r, opts, faces)
	var out image.Image = img
	if faces.upscale > 1 {
		b := img.Bounds()
		big := image.NewRGBA(image.Rect(0, 0, b.Dx()*faces.upscale, b.Dy()*faces.upscale))
		draw.NearestNeighbor.Scale(big, big.Bounds(), img, b, draw.Src, nil)
		out = big
	}
	return png.Encode(w, out)
}

func renderGrid(r canvas.Record, o PNGOptions, fs faceSet) *image.RGBA {
	u := fs.unit
	W, H := o.Width*u, o.Height*u
	img := image.NewRGBA(image.Rect(0, 0, W, H))
	fill(img, img.Bounds(), colorBackground)

	margin := 20 * u
	titleH := 48 * u
	title := r.ProductName
	if title == "" {
		title = mdcodec.FallbackTitle
		if fs.ascii {
			title = "Lean Canvas"
		}
	}
	drawText(img, fs.title, margin, margin+fs.title.Metrics().Ascent.Ceil(), title, colorText)

	gridTop := margin + titleH
	cw := (W - 2*margin) / GridCols
	ch := (H - gridTop - margin) / GridRows
	pad := 6 * u

	for _, c := range Layout {
		sec, _ := canvas.SectionFor(c.Field)
		rect := image.Rect(
			margin+c.Col*cw,
			gridTop+c.Row*ch,
			margin+(c.Col+c.ColSpan)*cw,
			gridTop+(c.Row+c.RowSpan)*ch,
		)
		headerH := fs.header.Metrics().Height.Ceil() + 2*pad
		fill(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+headerH), colorHeaderFill)
		stroke(img, rect, u, colorBorder)

		label := sec.Label
		if fs.ascii {
			label = sec.Name
		}
		drawText(img, fs.header, rect.Min.X+pad, rect.Min.Y+pad+fs.header.Metrics().Ascent.Ceil(), label, colorText)

		value, col := r.Get(c.Field), colorText
		if value == "" {
			value, col = sec.Hint, colorHint
			if fs.ascii {
				value = ""
			}
		}
		inner := image.Rect(rect.Min.X+pad, rect.Min.Y+headerH+pad/2, rect.Max.X-pad, rect.Max.Y-pad)
		drawBlock(img, fs.body, inner, value, col)
	}
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func stroke(img *image.RGBA, r image.Rectangle, t int, c color.Color) {
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), c)
	fill(img, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), c)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), c)
	fill(img, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func drawText(img *image.RGBA, face font.Face, x, y int, s string, c color.Color) {
	d := font.Drawer{Dst: img, Src: image.NewUniform(c), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

// drawBlock wraps text into box and clips whatever does not fit.
func drawBlock(img *image.RGBA, face font.Face, box image.Rectangle, text string, c color.Color) {
	if text == "" || box.Dx() <= 0 {
		return
	}
	lineH := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	maxLines := box.Dy() / lineH
	lines := wrapText(face, text, box.Dx())
	if maxLines <= 0 {
		return
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = strings.TrimRight(lines[maxLines-1], " ") + "..."
	}
	for i, line := range lines {
		drawText(img, face, box.Min.X, box.Min.Y+ascent+i*lineH, line, c)
	}
}

// wrapText breaks text into lines no wider than maxW, preferring spaces and
// falling back to rune boundaries for text without them.
func wrapText(face font.Face, text string, maxW int) []string {
	limit := fixed.I(maxW)
	var out []string
	for _, para := range strings.Split(text, "\n") {
		var line []rune
		for _, r := range para {
			if len(line) > 0 && font.MeasureString(face, string(line)+string(r)) > limit {
				cut := len(line)
				if r != ' ' {
					if i := lastSpace(line); i > 0 {
						cut = i
					}
				}
				out = append(out, strings.TrimRight(string(line[:cut]), " "))
				rest := []rune(strings.TrimLeft(string(line[cut:]), " "))
				if r == ' ' && len(rest) == 0 {
					line = nil
					continue
				}
				line = append(rest, r)
				continue
			}
			line = append(line, r)
		}
		out = append(out, string(line))
	}
	return out
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}
