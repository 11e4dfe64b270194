// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package citation

import "strings"

const (
	openDelim  = "[["
	closeDelim = "]]"
)

// =============================================================================
// TOKEN TYPES
// =============================================================================

// Kind distinguishes literal text from marker tokens.
type Kind int

const (
	KindLiteral Kind = iota // plain text
	KindMarker              // [[identifier]]
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Token is one piece of scanned text.
type Token struct {
	Kind Kind

	// Text is the exact source text, delimiters included for markers.
	Text string

	// ID is the identifier between the brackets. Empty for literals.
	ID string

	// Start and End are byte offsets into the scanned text.
	Start int
	End   int
}

// =============================================================================
// TOKENIZER
// =============================================================================

// Tokenizer produces tokens lazily, one per call to Next. It never allocates
// beyond the returned token and can be restarted with Reset.
type Tokenizer struct {
	src string
	pos int
}

// NewTokenizer creates a tokenizer over s.
func NewTokenizer(s string) *Tokenizer {
	return &Tokenizer{src: s}
}

// Reset rewinds the tokenizer to the start of its input.
func (t *Tokenizer) Reset() {
	t.pos = 0
}

// Next returns the next token. The second result is false once the input is
// exhausted. Literal tokens are never empty.
func (t *Tokenizer) Next() (Token, bool) {
	if t.pos >= len(t.src) {
		return Token{}, false
	}

	start, end, found := findMarker(t.src, t.pos)
	if !found {
		tok := t.literal(len(t.src))
		return tok, true
	}
	if start > t.pos {
		return t.literal(start), true
	}

	tok := Token{
		Kind:  KindMarker,
		Text:  t.src[start:end],
		ID:    t.src[start+len(openDelim) : end-len(closeDelim)],
		Start: start,
		End:   end,
	}
	t.pos = end
	return tok, true
}

func (t *Tokenizer) literal(end int) Token {
	tok := Token{
		Kind:  KindLiteral,
		Text:  t.src[t.pos:end],
		Start: t.pos,
		End:   end,
	}
	t.pos = end
	return tok
}

// findMarker locates the leftmost marker at or after from. It mirrors the
// leftmost-first match of \[\[([^\]]+)\]\]: from an opening "[[" the
// identifier runs to the first "]", which must be followed by a second "]".
func findMarker(s string, from int) (start, end int, found bool) {
	i := from
	for i < len(s) {
		rel := strings.Index(s[i:], openDelim)
		if rel < 0 {
			return 0, 0, false
		}
		i += rel

		idStart := i + len(openDelim)
		rb := strings.IndexByte(s[idStart:], ']')
		if rb < 0 {
			// No "]" anywhere ahead, so no later "[[" can close either.
			return 0, 0, false
		}
		k := idStart + rb
		if k > idStart && strings.HasPrefix(s[k:], closeDelim) {
			return i, k + len(closeDelim), true
		}

		// Every "[[" before k shares the same first "]" and fails the same
		// way, so scanning resumes at k.
		i = k
	}
	return 0, 0, false
}

// =============================================================================
// HELPERS
// =============================================================================

// Tokenize scans all of s.
func Tokenize(s string) []Token {
	var tokens []Token
	tok := NewTokenizer(s)
	for {
		t, ok := tok.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, t)
	}
}

// Join concatenates token texts. Join(Tokenize(s)) == s for every s.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Markers returns the identifiers of all markers in s, in order.
func Markers(s string) []string {
	var ids []string
	tok := NewTokenizer(s)
	for {
		t, ok := tok.Next()
		if !ok {
			return ids
		}
		if t.Kind == KindMarker {
			ids = append(ids, t.ID)
		}
	}
}
