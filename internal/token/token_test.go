package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeChars, m)

	m, err = ParseMode("words")
	require.NoError(t, err)
	assert.Equal(t, ModeWords, m)

	_, err = ParseMode("bytes")
	assert.ErrorContains(t, err, "invalid token mode")
}

func TestTokenize_Chars(t *testing.T) {
	tok := New(ModeChars)
	assert.Equal(t, []string{"a", "b", "c"}, tok.Tokenize("abc"))
	assert.Nil(t, tok.Tokenize(""))
	assert.Equal(t, "abc", tok.Join(tok.Tokenize("abc")))
}

func TestTokenize_CharsNormalizesCombiningMarks(t *testing.T) {
	tok := New(ModeChars)
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	assert.Equal(t, tok.Tokenize(composed), tok.Tokenize(decomposed))
	assert.Len(t, tok.Tokenize(decomposed), 4)
}

func TestTokenize_CharsKeepsGraphemeClusters(t *testing.T) {
	tok := New(ModeChars)
	// Flag emoji: two regional indicators, one grapheme.
	got := tok.Tokenize("a\U0001F1E9\U0001F1EAb")
	assert.Equal(t, []string{"a", "\U0001F1E9\U0001F1EA", "b"}, got)
}

func TestTokenize_Words(t *testing.T) {
	tok := New(ModeWords)
	assert.Equal(t, []string{"the", "cat", "sat"}, tok.Tokenize("the  cat\tsat"))
	assert.Equal(t, "the cat sat", tok.Join([]string{"the", "cat", "sat"}))
}

func TestTokenize_Fold(t *testing.T) {
	plain := New(ModeChars)
	folded := New(ModeChars, WithFold())

	assert.Equal(t, []string{"A", "b"}, plain.Tokenize("Ab"))
	assert.Equal(t, []string{"a", "b"}, folded.Tokenize("Ab"))
	assert.Equal(t, folded.Tokenize("STRASSE"), folded.Tokenize("straße"))
	assert.Equal(t, ModeChars, folded.Mode())
}
