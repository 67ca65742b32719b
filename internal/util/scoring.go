package util

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/mithrel/leancanvas/pkg/canvas"
)

// ScoreCompletions returns the top N matches for the input string from the candidates list.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return nil
	}

	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}

// FieldNames lists the JSON keys of every field, productName first.
func FieldNames() []string {
	fields := canvas.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

// minPrefix is the shortest abbreviation ResolveField accepts.
const minPrefix = 3

// ResolveField maps user input to a field: an exact key, English name or
// heading label, or else an abbreviation that is a prefix of exactly one key.
// Anything else fails with ErrUnknownField and the closest keys as hints.
func ResolveField(input string) (canvas.Field, error) {
	if f, ok := canvas.ParseField(input); ok {
		return f, nil
	}
	q := normalizeField(input)
	if utf8.RuneCountInString(q) >= minPrefix {
		var hits []canvas.Field
		for _, f := range canvas.Fields() {
			if strings.HasPrefix(strings.ToLower(string(f)), q) {
				hits = append(hits, f)
			}
		}
		if len(hits) == 1 {
			return hits[0], nil
		}
	}
	if q != "" {
		if near := ScoreCompletions(q, FieldNames(), 3); len(near) > 0 {
			return "", fmt.Errorf("%w %q (did you mean: %s?)", canvas.ErrUnknownField, input, strings.Join(near, ", "))
		}
	}
	return "", fmt.Errorf("%w %q (see `leancanvas fields`)", canvas.ErrUnknownField, input)
}

func normalizeField(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return unicode.ToLower(r)
	}, strings.TrimSpace(s))
}
