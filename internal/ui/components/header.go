// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/lexchat/internal/ui/styles"
	"github.com/jeranaias/lexchat/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the one-line title bar.
type Header struct {
	Title     string // default "lexchat"
	Subtitle  string // conversation title
	AgentType string
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme) *Header {
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	return &Header{
		Title: "lexchat",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header. The subtitle is truncated to fit.
func (h *Header) View() string {
	brand := h.theme.HeaderTitle.Render(h.Title)

	right := ""
	if h.AgentType != "" {
		right = h.theme.Badge.Render(h.AgentType)
	}

	// padding (2) + spacing around the subtitle (2)
	room := h.Width - 4 - lipgloss.Width(brand) - lipgloss.Width(right)
	line := brand
	if h.Subtitle != "" && room > 3 {
		line += " " + h.theme.HeaderSubtitle.Render(util.TruncateWidth(h.Subtitle, room))
	}

	gap := h.Width - 2 - lipgloss.Width(line) - lipgloss.Width(right)
	if right != "" && gap >= 1 {
		line += lipgloss.NewStyle().Width(gap).Render("") + right
	}
	return h.theme.Header.Width(h.Width).MaxHeight(1).Render(line)
}
