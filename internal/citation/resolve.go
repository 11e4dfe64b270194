// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package citation

import (
	"fmt"
	"strings"

	"github.com/jeranaias/lexchat/internal/model"
)

// =============================================================================
// SEGMENTS
// =============================================================================

// SegmentKind describes how a piece of a turn is displayed.
type SegmentKind int

const (
	SegmentText       SegmentKind = iota // plain text
	SegmentReference                     // marker resolved to a citation
	SegmentUnresolved                    // marker with no matching citation, shown as text
)

// String returns the string representation of the segment kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentText:
		return "text"
	case SegmentReference:
		return "reference"
	case SegmentUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Segment is one displayable piece of a turn.
type Segment struct {
	Kind SegmentKind
	Text string

	// Citation is set for SegmentReference only.
	Citation *model.Citation

	// Index is the position of Citation in the turn's citation list, or -1.
	Index int
}

// Activatable reports whether selecting the segment opens a citation.
func (s Segment) Activatable() bool {
	return s.Kind == SegmentReference && s.Citation != nil
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve turns a conversation turn into display segments. User turns are
// returned verbatim as a single text segment.
func Resolve(turn model.Turn) []Segment {
	if turn.Content == "" {
		return nil
	}
	if !turn.IsAssistant() {
		return []Segment{{Kind: SegmentText, Text: turn.Content, Index: -1}}
	}

	var segments []Segment
	tok := NewTokenizer(turn.Content)
	for {
		t, ok := tok.Next()
		if !ok {
			return segments
		}
		segments = append(segments, resolveToken(turn, t))
	}
}

func resolveToken(turn model.Turn, t Token) Segment {
	if t.Kind == KindLiteral {
		return Segment{Kind: SegmentText, Text: t.Text, Index: -1}
	}
	idx := indexOf(turn.Citations, t.ID)
	if idx < 0 {
		return Segment{Kind: SegmentUnresolved, Text: t.Text, Index: -1}
	}
	c := turn.Citations[idx]
	return Segment{Kind: SegmentReference, Text: t.Text, Citation: &c, Index: idx}
}

func indexOf(citations []model.Citation, id string) int {
	for i, c := range citations {
		if c.SourceID == id {
			return i
		}
	}
	return -1
}

// References returns the activatable segments of a turn in reading order.
func References(turn model.Turn) []Segment {
	var refs []Segment
	for _, s := range Resolve(turn) {
		if s.Activatable() {
			refs = append(refs, s)
		}
	}
	return refs
}

// Plain returns the turn content with resolved markers rewritten to
// footnote numbers ("[1]") matching the citation's position in the turn.
// Unresolved markers stay as written.
func Plain(turn model.Turn) string {
	var sb strings.Builder
	for _, s := range Resolve(turn) {
		if s.Kind == SegmentReference {
			fmt.Fprintf(&sb, "[%d]", s.Index+1)
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}
