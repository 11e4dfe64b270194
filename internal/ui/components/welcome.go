// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lexchat/internal/ui/styles"
)

// =============================================================================
// WELCOME PANEL
// =============================================================================

// Welcome is shown in place of the conversation while it is empty.
type Welcome struct {
	version   string
	backend   string
	agentType string

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a new welcome panel.
func NewWelcome(theme *styles.Theme) Welcome {
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	return Welcome{theme: theme}
}

// SetVersion sets the version string shown under the title.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// Version returns the version string.
func (w Welcome) Version() string {
	return w.version
}

// SetBackend sets the backend URL and agent type shown in the info block.
func (w *Welcome) SetBackend(url, agentType string) {
	w.backend = url
	w.agentType = agentType
}

// SetSize sets the area the panel is centered in.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome panel centered in its area.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 20
	}

	boxWidth := 60
	if boxWidth > width-4 {
		boxWidth = width - 4
	}
	if boxWidth < 24 {
		boxWidth = 24
	}

	title := w.theme.WelcomeTitle.Render("lexchat")
	if w.version != "" {
		title += " " + w.theme.Timestamp.Render(w.version)
	}
	subtitle := w.theme.WelcomeInfo.Render("Ask a legal question. Answers cite their sources.")

	blocks := []string{title, subtitle, ""}
	if w.backend != "" {
		blocks = append(blocks, w.renderInfo(), "")
	}
	if height >= 16 {
		blocks = append(blocks, w.renderQuickStart())
	} else {
		blocks = append(blocks, w.theme.WelcomeInfo.Render("Enter to send, Ctrl+C to quit"))
	}

	box := w.theme.WelcomeBox.
		Width(boxWidth).
		Render(lipgloss.JoinVertical(lipgloss.Center, blocks...))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (w Welcome) renderInfo() string {
	line := w.theme.WelcomeInfo.Render("Backend ") + w.backend
	if w.agentType != "" {
		line += w.theme.WelcomeInfo.Render("  agent ") + w.agentType
	}
	return line
}

// renderQuickStart renders keyboard hints.
func (w Welcome) renderQuickStart() string {
	tips := [][2]string{
		{"enter", "send question"},
		{"alt+enter", "new line"},
		{"tab", "focus a citation"},
		{"ctrl+o", "open focused citation"},
		{"/help", "all commands"},
	}

	lines := make([]string, 0, len(tips))
	for _, tip := range tips {
		key := w.theme.WelcomeKey.Width(11).Render(tip[0])
		lines = append(lines, key+w.theme.WelcomeInfo.Render(tip[1]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
