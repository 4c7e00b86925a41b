// Package token turns raw text into the atomic tokens indexed by the
// hypergraph.
//
// Input is normalized to Unicode NFC (and optionally case-folded) before it
// is segmented, so canonically equivalent spellings map to the same leaves.
// Two segmentations are supported:
//
//   - chars: one token per user-perceived character (grapheme cluster)
//   - words: one token per word, dropping whitespace between words
//
// Text satisfies hypergraph.Tokenizer[string].
package token
