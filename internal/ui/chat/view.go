// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lexchat/internal/ui/components"
	"github.com/jeranaias/lexchat/internal/ui/styles"
)

const (
	minPanelSide  = 32
	maxPanelSide  = 60
	minBodyHeight = 3
)

// View renders the chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	body := m.viewport.View()
	if m.panelOpen {
		if m.panelBeside() {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.panel.View())
		} else {
			body = lipgloss.JoinVertical(lipgloss.Left, body, m.panel.View())
		}
	}

	thinking := ""
	if m.ctrl.Pending() {
		thinking = m.spinner.View() + " " + m.theme.ThinkingText.Render("Thinking...")
	}

	parts := []string{
		m.header.View(),
		body,
		thinking,
		m.theme.InputContainer.Width(m.width).Render(m.input.View()),
		m.status.View(),
	}
	if m.showHelp {
		parts = append(parts, m.help.FullHelpView(m.keys.FullHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// panelBeside reports whether the citation panel sits to the right of the
// conversation rather than below it.
func (m Model) panelBeside() bool {
	return m.theme.GetLayoutMode() == styles.LayoutWide
}

// refresh recomputes the layout and re-renders the conversation. It is
// called after every state change.
func (m *Model) refresh() {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	m.theme.SetSize(w, h)

	m.header.SetWidth(w)
	if conv := m.ctrl.Conversation(); !conv.IsEmpty() {
		m.header.Subtitle = conv.Title()
	}
	m.status.SetWidth(w)
	m.status.ApplySessionStatus(m.ctrl.GetStatus())
	m.input.SetWidth(w - 2)
	m.help.Width = w

	helpHeight := 0
	if m.showHelp {
		helpHeight = lipgloss.Height(m.help.FullHelpView(m.keys.FullHelp()))
	}

	// header + thinking line + input border + input + status bar + help
	bodyHeight := h - 1 - 1 - 1 - inputHeight - 1 - helpHeight
	if bodyHeight < minBodyHeight {
		bodyHeight = minBodyHeight
	}

	vpWidth, vpHeight := w, bodyHeight
	if m.panelOpen {
		if m.panelBeside() {
			side := w / 3
			if side < minPanelSide {
				side = minPanelSide
			}
			if side > maxPanelSide {
				side = maxPanelSide
			}
			m.panel.SetSize(side, bodyHeight)
			vpWidth = w - side
		} else {
			panelHeight := bodyHeight / 2
			m.panel.SetSize(w, panelHeight)
			vpHeight = bodyHeight - lipgloss.Height(m.panel.View())
		}
	}
	if vpHeight < 1 {
		vpHeight = 1
	}

	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
	m.viewport.SetContent(m.renderConversation(vpWidth, vpHeight))
}

// renderConversation renders the turns, or the welcome panel while the
// conversation is empty.
func (m *Model) renderConversation(width, height int) string {
	turns := m.ctrl.Turns()
	if len(turns) == 0 {
		m.welcome.SetSize(width, height)
		m.welcome.SetBackend(m.status.Backend, m.ctrl.AgentType())
		return m.welcome.View()
	}

	list := components.NewMessageList(m.theme)
	list.SetWidth(width - 1)
	list.ShowTimestamps = m.cfg.UI.ShowTimestamps
	list.ShowBadges = m.cfg.UI.ShowBadges
	list.SetTurns(turns)

	if targets := m.focusTargets(); m.focus >= 0 && m.focus < len(targets) {
		t := targets[m.focus]
		list.SetFocus(t.turn, t.slot)
	}
	return list.View()
}
