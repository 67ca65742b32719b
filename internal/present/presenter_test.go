package present

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"plain": ModePlain, "Markdown": ModePlain, "pretty": ModePretty,
		"json": ModeJSON, "yml": ModeYAML, "grid": ModeGrid, "tui": ModeTUI,
	} {
		got, ok := ParseMode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseMode("xml")
	assert.False(t, ok)
}

func TestRenderRecordModes(t *testing.T) {
	r := canvas.Record{ProductName: "Acme", Solution: "app"}
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, RenderRecord(ctx, &buf, r, Options{Mode: ModePlain}))
	assert.Equal(t, mdcodec.Serialize(r), buf.String())

	buf.Reset()
	require.NoError(t, RenderRecord(ctx, &buf, r, Options{Mode: ModeJSON}))
	assert.Contains(t, buf.String(), `"solution":"app"`)

	buf.Reset()
	require.NoError(t, RenderRecord(ctx, &buf, r, Options{Mode: ModeYAML}))
	assert.Contains(t, buf.String(), "solution: app")

	buf.Reset()
	require.NoError(t, RenderRecord(ctx, &buf, r, Options{Mode: ModeGrid, Width: 100}))
	assert.Contains(t, buf.String(), "ソリューション")

	assert.ErrorIs(t, RenderRecord(ctx, &buf, r, Options{Mode: ModeTUI}), ErrInteractive)
}
