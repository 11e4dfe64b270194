// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/lexchat/internal/citation"
	"github.com/jeranaias/lexchat/internal/model"
	"github.com/jeranaias/lexchat/internal/ui/styles"
	"github.com/jeranaias/lexchat/internal/util"
)

// =============================================================================
// ACTIVATABLES
// =============================================================================

// Activatable is one focusable item in a rendered turn: an inline reference
// or a badge. Activating either opens the same citation.
type Activatable struct {
	Citation model.Citation
	Number   int  // 1-based position of the citation in the turn
	Badge    bool // false for inline references
}

// Activatables lists the focusable items of a turn in display order: inline
// references as they appear in the text, then one badge per citation.
// User turns have none.
func Activatables(turn model.Turn, showBadges bool) []Activatable {
	if !turn.IsAssistant() {
		return nil
	}

	var items []Activatable
	for _, seg := range citation.References(turn) {
		items = append(items, Activatable{
			Citation: *seg.Citation,
			Number:   seg.Index + 1,
		})
	}
	if showBadges {
		for i, c := range turn.Citations {
			items = append(items, Activatable{Citation: c, Number: i + 1, Badge: true})
		}
	}
	return items
}

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one conversation turn.
type MessageBubble struct {
	Turn          model.Turn
	Width         int
	ShowTimestamp bool
	ShowBadges    bool

	// Focus is the index into Activatables(Turn) that has keyboard focus,
	// or -1 when nothing in this turn is focused.
	Focus int

	theme *styles.Theme
}

// NewMessageBubble creates a new MessageBubble
func NewMessageBubble(turn model.Turn, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Turn:          turn,
		Width:         80,
		ShowTimestamp: true,
		ShowBadges:    true,
		Focus:         -1,
		theme:         theme,
	}
}

// SetWidth sets the bubble width
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble
func (b *MessageBubble) View() string {
	if b.theme == nil {
		b.theme = styles.NewTheme(styles.ModeAuto)
	}
	switch {
	case b.Turn.IsUser():
		return b.renderUserBubble()
	case b.Turn.Failed:
		return b.renderFailureBubble()
	default:
		return b.renderAssistantBubble()
	}
}

func (b *MessageBubble) contentWidth() int {
	w := b.Width - 8
	if w < 20 {
		w = 20
	}
	return w
}

// ==========================================================================
// USER BUBBLE - right-aligned, text and spacing shown verbatim
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Turn.Content
	if content == "" {
		content = "..."
	}

	wrapped := util.WrapVerbatim(content, b.contentWidth())
	bubble := b.theme.UserBubble.Render(wrapped)

	header := b.theme.UserLabel.Render(model.RoleUser.DisplayName())
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	block := lipgloss.JoinVertical(lipgloss.Right, header, bubble)
	leftMargin := b.Width - lipgloss.Width(block)
	if leftMargin < 0 {
		leftMargin = 0
	}
	return lipgloss.NewStyle().MarginLeft(leftMargin).Render(block)
}

// ==========================================================================
// ASSISTANT BUBBLE - left-aligned, markers resolved to references
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	body := b.renderSegments()
	if body == "" {
		body = "..."
	}

	bubble := b.theme.AssistantBubble.
		Width(b.contentWidth() + 2).
		Render(body)

	header := b.theme.AssistantLabel.Render(model.RoleAssistant.DisplayName())
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	parts := []string{header, bubble}
	if b.ShowBadges && len(b.Turn.Citations) > 0 {
		parts = append(parts, b.renderBadges())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderSegments styles resolved references, leaves unresolved markers as
// plain text and copies everything else through.
func (b *MessageBubble) renderSegments() string {
	var sb strings.Builder
	slot := 0
	for _, seg := range citation.Resolve(b.Turn) {
		switch seg.Kind {
		case citation.SegmentReference:
			style := b.theme.Reference
			if slot == b.Focus {
				style = b.theme.ReferenceFocused
			}
			sb.WriteString(style.Render(seg.Text))
			slot++
		case citation.SegmentUnresolved:
			sb.WriteString(b.theme.Unresolved.Render(seg.Text))
		default:
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// renderBadges flows one badge per citation across as many lines as needed.
func (b *MessageBubble) renderBadges() string {
	firstBadgeSlot := len(citation.References(b.Turn))
	maxLabel := b.Width - 8
	if maxLabel < 10 {
		maxLabel = 10
	}

	var (
		lines []string
		line  string
	)
	for i, c := range b.Turn.Citations {
		label := util.TruncateWidth(fmt.Sprintf("[%d] %s", i+1, c.Label()), maxLabel)
		style := b.theme.Badge
		if firstBadgeSlot+i == b.Focus {
			style = b.theme.BadgeFocused
		}
		badge := style.Render(label)

		switch {
		case line == "":
			line = badge
		case lipgloss.Width(line)+1+lipgloss.Width(badge) <= b.Width:
			line += " " + badge
		default:
			lines = append(lines, line)
			line = badge
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// ==========================================================================
// FAILURE BUBBLE - the apology turn after a failed request
// ==========================================================================

func (b *MessageBubble) renderFailureBubble() string {
	wrapped := util.Wrap(b.Turn.Content, b.contentWidth())
	bubble := b.theme.FailureBubble.Render(wrapped)

	header := b.theme.ErrorStyle.Render(styles.StatusIndicators.Error) + " " +
		b.theme.AssistantLabel.Render(model.RoleAssistant.DisplayName())
	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// HELPER METHODS
// ==========================================================================

// renderTimestamp renders a dimmed timestamp
func (b *MessageBubble) renderTimestamp() string {
	if !b.ShowTimestamp || b.Turn.Timestamp.IsZero() {
		return ""
	}
	return b.theme.Timestamp.Render(formatTimestamp(b.Turn.Timestamp, time.Now()))
}

// formatTimestamp shows "3:04 PM" for today and "Jan 2, 3:04 PM" otherwise.
func formatTimestamp(ts, now time.Time) string {
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		return ts.Format("3:04 PM")
	}
	return ts.Format("Jan 2, 3:04 PM")
}

// =============================================================================
// MESSAGE LIST COMPONENT - For rendering the whole conversation
// =============================================================================

// MessageList renders a conversation with at most one focused activatable.
type MessageList struct {
	Turns          []model.Turn
	Width          int
	ShowTimestamps bool
	ShowBadges     bool

	// FocusTurn and FocusSlot locate the focused activatable; FocusTurn is
	// -1 when nothing is focused.
	FocusTurn int
	FocusSlot int

	theme *styles.Theme
}

// NewMessageList creates a new MessageList
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Width:          80,
		ShowTimestamps: true,
		ShowBadges:     true,
		FocusTurn:      -1,
		theme:          theme,
	}
}

// SetTurns sets the turns to display
func (ml *MessageList) SetTurns(turns []model.Turn) {
	ml.Turns = turns
}

// SetWidth sets the list width
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// SetFocus moves focus to slot within turn; a negative turn clears it.
func (ml *MessageList) SetFocus(turn, slot int) {
	ml.FocusTurn = turn
	ml.FocusSlot = slot
}

// View renders all turns separated by a blank line.
func (ml *MessageList) View() string {
	bubbles := make([]string, 0, len(ml.Turns))
	for i, turn := range ml.Turns {
		bubble := NewMessageBubble(turn, ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubble.ShowBadges = ml.ShowBadges
		if i == ml.FocusTurn {
			bubble.Focus = ml.FocusSlot
		}
		bubbles = append(bubbles, bubble.View())
	}
	return strings.Join(bubbles, "\n\n")
}
