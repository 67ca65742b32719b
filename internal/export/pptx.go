package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

// SlideOptions controls the slide-deck export.
type SlideOptions struct {
	// AccentColor is the RRGGBB fill of section headers.
	AccentColor string
	// Now stamps the document properties; zero means time.Now.
	Now time.Time
}

// Slide geometry in EMU (16:9).
const (
	slideW      = 12192000
	slideH      = 6858000
	slideMargin = 365760
	slideTitleH = 731520
	tableTop    = slideMargin + slideTitleH
)

// PPTX writes a single-slide PowerPoint deck: a title and a table mirroring
// the canvas grid, with merged cells for the tall and bottom sections.
func PPTX(w io.Writer, r canvas.Record, opts SlideOptions) error {
	accent := strings.TrimPrefix(strings.TrimSpace(opts.AccentColor), "#")
	if !isHexColor(accent) {
		accent = "3B82F6"
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	title := r.ProductName
	if title == "" {
		title = mdcodec.FallbackTitle
	}

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", coreXML(title, now)},
		{"docProps/app.xml", appXML},
		{"ppt/presentation.xml", presentationXML},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
		{"ppt/slides/slide1.xml", slideXML(r, title, accent)},
		{"ppt/slides/_rels/slide1.xml.rels", slideRelsXML},
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return err
		}
		if _, err := io.WriteString(fw, p.body); err != nil {
			return err
		}
	}
	return zw.Close()
}

func isHexColor(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

func esc(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func slideXML(r canvas.Record, title, accent string) string {
	tableW := slideW - 2*slideMargin
	tableH := slideH - tableTop - slideMargin
	colW := tableW / GridCols
	rowH := tableH / GridRows

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)

	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
		`<p:txBody><a:bodyPr anchor="ctr"/><a:lstStyle/><a:p><a:r><a:rPr lang="ja-JP" sz="2800" b="1"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		slideMargin, slideMargin, tableW, slideTitleH, esc(title))

	fmt.Fprintf(&b, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="3" name="Canvas"/><p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`+
		`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblPr firstRow="0" bandRow="0"/><a:tblGrid>`,
		slideMargin, tableTop, colW*GridCols, rowH*GridRows)
	for i := 0; i < GridCols; i++ {
		fmt.Fprintf(&b, `<a:gridCol w="%d"/>`, colW)
	}
	b.WriteString(`</a:tblGrid>`)

	for row := 0; row < GridRows; row++ {
		fmt.Fprintf(&b, `<a:tr h="%d">`, rowH)
		for col := 0; col < GridCols; col++ {
			c, origin, covered := cellAt(col, row)
			switch {
			case !covered:
				b.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="ja-JP"/></a:p></a:txBody><a:tcPr/></a:tc>`)
			case origin:
				writeOriginCell(&b, r, c, accent)
			default:
				attrs := ""
				if col != c.Col {
					attrs += ` hMerge="1"`
				}
				if row != c.Row {
					attrs += ` vMerge="1"`
				}
				fmt.Fprintf(&b, `<a:tc%s><a:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="ja-JP"/></a:p></a:txBody><a:tcPr/></a:tc>`, attrs)
			}
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

func writeOriginCell(b *strings.Builder, r canvas.Record, c Cell, accent string) {
	sec, _ := canvas.SectionFor(c.Field)
	attrs := ""
	if c.ColSpan > 1 {
		attrs += fmt.Sprintf(` gridSpan="%d"`, c.ColSpan)
	}
	if c.RowSpan > 1 {
		attrs += fmt.Sprintf(` rowSpan="%d"`, c.RowSpan)
	}
	fmt.Fprintf(b, `<a:tc%s><a:txBody><a:bodyPr/><a:lstStyle/>`, attrs)
	fmt.Fprintf(b, `<a:p><a:r><a:rPr lang="ja-JP" sz="1200" b="1"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr><a:t>%s</a:t></a:r></a:p>`, accent, esc(sec.Label))
	if value := r.Get(c.Field); value != "" {
		for _, line := range strings.Split(value, "\n") {
			fmt.Fprintf(b, `<a:p><a:r><a:rPr lang="ja-JP" sz="1000"/><a:t>%s</a:t></a:r></a:p>`, esc(line))
		}
	} else {
		b.WriteString(`<a:p><a:endParaRPr lang="ja-JP" sz="1000"/></a:p>`)
	}
	b.WriteString(`</a:txBody><a:tcPr anchor="t">`)
	b.WriteString(`<a:lnL w="9525"><a:solidFill><a:srgbClr val="333333"/></a:solidFill></a:lnL>`)
	b.WriteString(`<a:lnR w="9525"><a:solidFill><a:srgbClr val="333333"/></a:solidFill></a:lnR>`)
	b.WriteString(`<a:lnT w="9525"><a:solidFill><a:srgbClr val="333333"/></a:solidFill></a:lnT>`)
	b.WriteString(`<a:lnB w="9525"><a:solidFill><a:srgbClr val="333333"/></a:solidFill></a:lnB>`)
	b.WriteString(`<a:solidFill><a:srgbClr val="FFFFFF"/></a:solidFill></a:tcPr></a:tc>`)
}

func coreXML(title string, now time.Time) string {
	ts := now.UTC().Format("2006-01-02T15:04:05Z")
	return xmlHeader + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + esc(title) + `</dc:title><dc:creator>leancanvas</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:modified></cp:coreProperties>`
}
