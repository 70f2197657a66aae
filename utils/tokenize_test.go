package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The Quick-Brown FOX, and 2 dogs!")
	assert.Equal(t, []string{"quick", "brown", "fox", "2", "dogs"}, tokens)
}

func TestTokenizeDropsStopwords(t *testing.T) {
	tokens := Tokenize("a study session at the library with friends")
	assert.NotContains(t, tokens, "a")
	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "with")
	assert.Contains(t, tokens, "study")
	assert.Contains(t, tokens, "library")
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("  ,,, !!"))
}

func TestNormalizeTags(t *testing.T) {
	tags := NormalizeTags([]string{" Piano ", "piano", "SPANISH", "", "  "})
	assert.Equal(t, []string{"piano", "spanish"}, tags)
}

func TestJaccard(t *testing.T) {
	a := map[string]bool{"x": true, "y": true}
	b := map[string]bool{"y": true, "z": true}

	assert.InDelta(t, 1.0/3.0, Jaccard(a, b), 1e-9)
	assert.Equal(t, 0.0, Jaccard(nil, nil))
	assert.Equal(t, 1.0, Jaccard(a, a))
	assert.Equal(t, 0.0, Jaccard(a, map[string]bool{"q": true}))
}
