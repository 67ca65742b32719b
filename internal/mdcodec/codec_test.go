package mdcodec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/leancanvas/pkg/canvas"
)

func filled() canvas.Record {
	return canvas.Record{
		ProductName:            "Acme",
		Problem:                "Too few signups\nChurn after trial",
		ExistingAlternatives:   "Spreadsheets",
		Solution:               "Referral loop",
		KeyMetrics:             "Weekly actives",
		UniqueValueProposition: "Signups without ads",
		HighLevelConcept:       "Dropbox for referrals",
		UnfairAdvantage:        "Existing community",
		Channels:               "  indented line\nplain line",
		CustomerSegments:       "Indie SaaS",
		EarlyAdopters:          "Solo founders",
		CostStructure:          "Hosting",
		RevenueStreams:         "Subscriptions",
	}
}

func TestSerializeFormat(t *testing.T) {
	r := canvas.Empty()
	r.ProductName = "Acme"
	r.Problem = "X"

	doc := Serialize(r)
	require.True(t, strings.HasPrefix(doc, "# Acme\n\n## 課題\nX\n\n## 代替品\n\n\n## ソリューション\n"), doc)
	require.True(t, strings.HasSuffix(doc, "## 収益の流れ\n\n"), doc)
}

func TestSerializeEmptyStructure(t *testing.T) {
	doc := Serialize(canvas.Empty())

	assert.Equal(t, 12, strings.Count(doc, "## "))
	titles := 0
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, "# ") {
			titles++
		}
	}
	assert.Equal(t, 1, titles)
	assert.True(t, strings.HasPrefix(doc, "# "+FallbackTitle+"\n"))
}

func TestSerializeFallbackTitle(t *testing.T) {
	r := canvas.Empty()
	r.Problem = "X"
	doc := Serialize(r)

	lines := strings.Split(doc, "\n")
	require.Equal(t, "# "+FallbackTitle, lines[0])
	for i, line := range lines {
		if line == "## 課題" {
			require.Equal(t, "X", lines[i+1])
			require.Equal(t, "", lines[i+2])
			return
		}
	}
	t.Fatalf("problem section missing: %q", doc)
}

func TestRoundTrip(t *testing.T) {
	r := filled()
	got := Parse(canvas.Empty(), Serialize(r))
	// Leading whitespace of the first body line is trimmed with the block.
	want := r
	want.Channels = "indented line\nplain line"
	assert.Equal(t, want, got)

	r.Channels = "plain line\n  indented line"
	assert.Equal(t, r, Parse(canvas.Empty(), Serialize(r)))
}

func TestRoundTripOntoDifferentBase(t *testing.T) {
	r := canvas.Empty()
	r.ProductName = "Acme"
	r.Solution = "Referral loop"

	base := filled()
	assert.Equal(t, r, Parse(base, Serialize(r)))
}

func TestParseExample(t *testing.T) {
	prior := canvas.Empty()
	prior.ProductName = "Old"
	prior.KeyMetrics = "kept"

	in := "# Acme\n\n## 課題\nToo few signups\n\n## ソリューション\nReferral loop\n"
	got := Parse(prior, in)

	want := prior
	want.ProductName = "Acme"
	want.Problem = "Too few signups"
	want.Solution = "Referral loop"
	assert.Equal(t, want, got)
}

func TestParseEmptyBodyClearsField(t *testing.T) {
	prior := canvas.Empty()
	prior.Problem = "previous"
	prior.Solution = "previous"

	got := Parse(prior, "## 課題\n\n## ソリューション\n")
	assert.Equal(t, "", got.Problem)
	assert.Equal(t, "", got.Solution)
}

func TestParseUnknownLabelIgnored(t *testing.T) {
	prior := filled()
	got := Parse(prior, "## Unknown\nsomething\n\n## チャネル\nSEO\n")

	want := prior
	want.Channels = "SEO"
	assert.Equal(t, want, got)
}

func TestParseWithoutTitleKeepsProductName(t *testing.T) {
	prior := canvas.Empty()
	prior.ProductName = "Old"
	got := Parse(prior, "## 課題\nX\n")
	assert.Equal(t, "Old", got.ProductName)
	assert.Equal(t, "X", got.Problem)
}

func TestParseLastTitleWins(t *testing.T) {
	got := Parse(canvas.Empty(), "# First\n## 課題\nA\n#   Second  \n")
	assert.Equal(t, "Second", got.ProductName)
	assert.Equal(t, "A", got.Problem)
}

func TestParseDropsBlankLinesInsideBody(t *testing.T) {
	got := Parse(canvas.Empty(), "## 課題\n\nfirst paragraph\n\n\nsecond paragraph\n\n")
	assert.Equal(t, "first paragraph\nsecond paragraph", got.Problem)
}

func TestParseIgnoresPreambleAndDeeperHeadings(t *testing.T) {
	in := "intro text\n# Acme\nmore intro\n## 課題\n### detail\n- bullet\n"
	got := Parse(canvas.Empty(), in)
	assert.Equal(t, "Acme", got.ProductName)
	assert.Equal(t, "### detail\n- bullet", got.Problem)
}

func TestParseCRLF(t *testing.T) {
	got := Parse(canvas.Empty(), "# Acme\r\n\r\n## 課題\r\nA\r\nB\r\n")
	assert.Equal(t, "Acme", got.ProductName)
	assert.Equal(t, "A\nB", got.Problem)
}

func TestParseGarbage(t *testing.T) {
	prior := filled()
	assert.Equal(t, prior, Parse(prior, ""))
	assert.Equal(t, prior, Parse(prior, "\x00\x01 not markdown at all\n##no-space\n#no-space"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParseReader(t *testing.T) {
	prior := filled()
	got, err := ParseReader(prior, strings.NewReader("## 課題\nnew\n"))
	require.NoError(t, err)
	assert.Equal(t, "new", got.Problem)

	got, err = ParseReader(prior, failingReader{})
	require.Error(t, err)
	assert.Equal(t, prior, got)
}

func TestExportFilename(t *testing.T) {
	cases := map[string]string{
		"":               "lean-canvas.md",
		"Acme":           "Acme-lean-canvas.md",
		"Acme Rockets 2": "Acme Rockets 2-lean-canvas.md",
		"Acme/..:*?":     "Acme-lean-canvas.md",
		"リーンキャンバス":       "lean-canvas.md",
		"my_app-v2":      "my_app-v2-lean-canvas.md",
		"  spaced  ":     "spaced-lean-canvas.md",
		"a\nb\t\tc":       "a b c-lean-canvas.md",
		"Acme 日本 Labs":   "Acme Labs-lean-canvas.md",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExportFilename(in), in)
	}
}
