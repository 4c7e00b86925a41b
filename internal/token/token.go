package token

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Mode selects how text is segmented into tokens.
type Mode string

const (
	// ModeChars yields one token per grapheme cluster.
	ModeChars Mode = "chars"

	// ModeWords yields one token per word.
	ModeWords Mode = "words"
)

// ValidModes lists the accepted segmentation modes.
var ValidModes = []Mode{ModeChars, ModeWords}

// ParseMode validates a mode name. The empty string selects ModeChars.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeChars, nil
	}
	for _, m := range ValidModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid token mode %q: must be one of %v", s, ValidModes)
}

// Text tokenizes strings.
type Text struct {
	mode Mode
	fold bool
}

// Option configures a Text tokenizer.
type Option func(*Text)

// WithFold enables Unicode case folding before segmentation.
func WithFold() Option {
	return func(t *Text) {
		t.fold = true
	}
}

// New creates a tokenizer for the given mode.
func New(mode Mode, opts ...Option) *Text {
	t := &Text{mode: mode}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Mode returns the segmentation mode.
func (t *Text) Mode() Mode {
	return t.mode
}

// Normalize applies NFC normalization and, if enabled, case folding.
func (t *Text) Normalize(s string) string {
	s = norm.NFC.String(s)
	if t.fold {
		s = cases.Fold().String(s)
	}
	return s
}

// Tokenize normalizes input and splits it into tokens.
func (t *Text) Tokenize(input string) []string {
	s := t.Normalize(input)
	if t.mode == ModeWords {
		return words(s)
	}
	return graphemes(s)
}

// Join reassembles tokens into text: concatenated for chars, space separated
// for words.
func (t *Text) Join(tokens []string) string {
	if t.mode == ModeWords {
		return strings.Join(tokens, " ")
	}
	return strings.Join(tokens, "")
}

func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

func words(s string) []string {
	var out []string
	state := -1
	for len(s) > 0 {
		var w string
		w, s, state = uniseg.FirstWordInString(s, state)
		if strings.TrimFunc(w, unicode.IsSpace) == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}
