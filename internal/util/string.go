// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the number of terminal columns s occupies.
// Double-width characters (CJK) count as 2 columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth truncates s to at most maxWidth columns. When s is cut and
// there is room, the last column becomes "…".
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// PadRight pads s with spaces up to width columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Wrap word-wraps text to width columns. Explicit newlines in the input are
// kept, so paragraph and line structure survive. Words wider than width are
// hard-split.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var (
		result  []string
		current strings.Builder
		curW    int
	)
	flush := func() {
		result = append(result, current.String())
		current.Reset()
		curW = 0
	}

	for _, word := range strings.Fields(line) {
		ww := runewidth.StringWidth(word)

		// Hard-split words that can never fit on one line.
		for ww > width {
			if curW > 0 {
				flush()
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// A single rune wider than the line.
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			result = append(result, head)
			word = word[len(head):]
			ww = runewidth.StringWidth(word)
		}
		if ww == 0 {
			continue
		}

		switch {
		case curW == 0:
			current.WriteString(word)
			curW = ww
		case curW+1+ww <= width:
			current.WriteByte(' ')
			current.WriteString(word)
			curW += 1 + ww
		default:
			flush()
			current.WriteString(word)
			curW = ww
		}
	}
	if curW > 0 || len(result) == 0 {
		flush()
	}
	return result
}

// WrapVerbatim wraps like Wrap but keeps whitespace runs inside a line,
// leading indentation included. Only the run a line breaks at is consumed.
func WrapVerbatim(text string, width int) string {
	if width <= 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapVerbatimLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapVerbatimLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var (
		result  []string
		current strings.Builder
		curW    int
		pending string // whitespace waiting for the next word
	)
	flush := func() {
		result = append(result, current.String())
		current.Reset()
		curW = 0
	}

	for _, tok := range splitSpaceRuns(line) {
		if isSpaceRun(tok) {
			pending += tok
			continue
		}

		word := tok
		pw, ww := runewidth.StringWidth(pending), runewidth.StringWidth(word)
		// Indentation only counts on the first line.
		if curW == 0 && len(result) > 0 {
			pending, pw = "", 0
		}
		if curW+pw+ww <= width {
			current.WriteString(pending)
			current.WriteString(word)
			curW += pw + ww
			pending = ""
			continue
		}

		if curW > 0 {
			flush()
		}
		pending = ""
		for ww > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			result = append(result, head)
			word = word[len(head):]
			ww = runewidth.StringWidth(word)
		}
		current.WriteString(word)
		curW = ww
	}

	if pending != "" && curW < width {
		current.WriteString(runewidth.Truncate(pending, width-curW, ""))
		curW = runewidth.StringWidth(current.String())
	}
	if curW > 0 || len(result) == 0 {
		flush()
	}
	return result
}

// splitSpaceRuns splits s into alternating runs of whitespace and
// non-whitespace.
func splitSpaceRuns(s string) []string {
	var (
		runs  []string
		start int
	)
	for i, r := range s {
		if i > start && unicode.IsSpace(r) != isSpaceRun(s[start:i]) {
			runs = append(runs, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		runs = append(runs, s[start:])
	}
	return runs
}

func isSpaceRun(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}
