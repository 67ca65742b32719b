package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/leancanvas/pkg/canvas"
)

func TestScoreCompletions(t *testing.T) {
	cands := []string{"problem", "solution", "channels"}
	assert.Equal(t, cands, ScoreCompletions("", cands, 2))
	assert.Equal(t, []string{"channels"}, ScoreCompletions("chan", cands, 5))
	assert.Nil(t, ScoreCompletions("zzz", cands, 5))
	assert.Len(t, ScoreCompletions("o", cands, 1), 1)
}

func TestResolveField(t *testing.T) {
	cases := map[string]canvas.Field{
		"problem":           canvas.Problem,
		"Unfair Advantage":  canvas.UnfairAdvantage,
		"収益の流れ":             canvas.RevenueStreams,
		"unique":            canvas.UniqueValueProposition,
		"high-level":        canvas.HighLevelConcept,
		"earlyadopt":        canvas.EarlyAdopters,
		"product name":      canvas.ProductName,
		"customer segments": canvas.CustomerSegments,
	}
	for in, want := range cases {
		got, err := ResolveField(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"xyzzy", "  ", "team", "x", "s", "pro", "uvp"} {
		_, err := ResolveField(in)
		assert.ErrorIs(t, err, canvas.ErrUnknownField, in)
	}
}

func TestResolveFieldSuggests(t *testing.T) {
	_, err := ResolveField("pro")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
	assert.Contains(t, err.Error(), "problem")
	assert.Contains(t, err.Error(), "productName")
}
