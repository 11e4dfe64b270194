// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/lexchat/internal/export"
	"github.com/jeranaias/lexchat/internal/ui/components"
	"github.com/jeranaias/lexchat/internal/ui/styles"
)

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case responseMsg:
		return m.handleResponse(msg)

	case components.CitationSelectedMsg:
		m.ctrl.Select(msg.Citation)
		m.panel = components.NewCitationPanel(msg.Citation, m.theme)
		m.panel.SetHyperlinks(m.cfg.UI.Hyperlinks)
		m.panelOpen = true
		m.refresh()
		return m, nil

	case components.CitationDismissedMsg:
		m.ctrl.ClearSelection()
		m.panelOpen = false
		m.refresh()
		return m, nil

	case healthMsg:
		if msg.err != nil || !msg.healthy {
			m.status.SetHealth(components.HealthDown)
			if msg.err != nil {
				m.logger.Warn("health check failed", zap.Error(msg.err))
			}
		} else {
			m.status.SetHealth(components.HealthUp)
		}
		return m, nil

	case configReloadedMsg:
		return m.handleConfigReload(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.logger.Error("export failed", zap.Error(msg.err))
			return m, m.setNotice(styles.StatusIndicators.Error + " export failed: " + msg.err.Error())
		}
		m.logger.Info("exported transcript", zap.String("path", msg.path))
		return m, m.setNotice(styles.StatusIndicators.Success + " exported to " + msg.path)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.status.SetNotice("")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and anything else the textarea understands.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.ClosePanel):
		if m.panelOpen {
			var cmd tea.Cmd
			m.panel, cmd = m.panel.Update(msg)
			return m, cmd
		}
		if m.focus >= 0 {
			m.focus = -1
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.NextRef):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevRef):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.OpenRef):
		return m, m.openFocused()

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		if m.panelOpen {
			var cmd tea.Cmd
			m.panel, cmd = m.panel.Update(msg)
			return m, cmd
		}
		if key.Matches(msg, m.keys.PageUp) {
			m.viewport.ViewUp()
		} else {
			m.viewport.ViewDown()
		}
		return m, nil

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd("md")

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if strings.TrimSpace(m.input.Value()) == "" && m.focus >= 0 {
			return m, m.openFocused()
		}
		return m.submit()
	}

	// Typing is ignored while a request is in flight.
	if m.ctrl.Pending() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input, or runs it as a slash command. Empty input and
// input while a request is in flight are ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := m.input.Value()
	if strings.HasPrefix(strings.TrimSpace(input), "/") {
		return m.handleCommand(strings.TrimSpace(input))
	}

	req, ok := m.ctrl.Submit(input)
	if !ok {
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.status.SetStatus(components.StatusWaiting)
	m.refresh()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.sendCmd(req), m.spinner.Tick)
}

func (m Model) handleResponse(msg responseMsg) (tea.Model, tea.Cmd) {
	turn, ok := m.ctrl.Complete(msg.result)
	if !ok {
		return m, nil
	}

	if turn.Failed {
		m.status.SetStatus(components.StatusError)
	} else {
		m.status.SetStatus(components.StatusReady)
	}
	m.input.Focus()
	m.refresh()
	m.viewport.GotoBottom()
	return m, textarea.Blink
}

// =============================================================================
// FOCUS
// =============================================================================

// focusTarget locates one activatable item in the conversation.
type focusTarget struct {
	turn int
	slot int
	item components.Activatable
}

// focusTargets lists every activatable item, oldest turn first.
func (m Model) focusTargets() []focusTarget {
	var targets []focusTarget
	for i, turn := range m.ctrl.Turns() {
		for j, item := range components.Activatables(turn, m.cfg.UI.ShowBadges) {
			targets = append(targets, focusTarget{turn: i, slot: j, item: item})
		}
	}
	return targets
}

// moveFocus steps focus by delta with wraparound. With nothing focused,
// focus starts at the first item of the newest answer that has any.
func (m *Model) moveFocus(delta int) {
	targets := m.focusTargets()
	if len(targets) == 0 {
		m.focus = -1
		return
	}

	if m.focus < 0 || m.focus >= len(targets) {
		lastTurn := targets[len(targets)-1].turn
		m.focus = len(targets) - 1
		for i, t := range targets {
			if t.turn == lastTurn {
				m.focus = i
				break
			}
		}
		if delta < 0 {
			m.focus = len(targets) - 1
		}
	} else {
		m.focus = (m.focus + delta + len(targets)) % len(targets)
	}
	m.refresh()
}

// openFocused emits the focused item's citation.
func (m Model) openFocused() tea.Cmd {
	targets := m.focusTargets()
	if m.focus < 0 || m.focus >= len(targets) {
		return nil
	}
	return components.SelectCitation(targets[m.focus].item.Citation)
}

// =============================================================================
// CONFIG AND EXPORT
// =============================================================================

func (m Model) handleConfigReload(msg configReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("config reload failed", zap.Error(msg.err))
		return m, tea.Batch(m.setNotice(styles.StatusIndicators.Warning+" config not reloaded"), m.watchConfig())
	}
	if msg.cfg == nil {
		return m, m.watchConfig()
	}

	cfg := msg.cfg
	if cfg.UI.Theme != m.cfg.UI.Theme {
		m.applyTheme(styles.NewTheme(cfg.UI.Theme))
	}
	m.ctrl.SetTimeout(cfg.Backend.Timeout())
	m.ctrl.SetAgentType(cfg.Backend.AgentType)
	m.header.AgentType = m.ctrl.AgentType()
	m.panel.SetHyperlinks(cfg.UI.Hyperlinks)
	if cfg.UI.ShowBadges != m.cfg.UI.ShowBadges {
		m.focus = -1
	}
	m.cfg = cfg
	m.logger.Info("config reloaded")
	m.refresh()

	return m, tea.Batch(m.setNotice(styles.StatusIndicators.Info+" config reloaded"), m.watchConfig())
}

// applyTheme swaps the theme into every component that holds one.
func (m *Model) applyTheme(theme *styles.Theme) {
	m.theme = theme
	m.spinner.Style = theme.Spinner

	header := components.NewHeader(theme)
	header.AgentType = m.header.AgentType
	m.header = header

	status := components.NewStatusBar(theme)
	status.Backend = m.status.Backend
	status.Health = m.status.Health
	status.Status = m.status.Status
	status.Notice = m.status.Notice
	m.status = status

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(m.welcome.Version())
	m.welcome = welcome

	if m.panelOpen {
		m.panel = components.NewCitationPanel(m.panel.Citation(), theme)
		m.panel.SetHyperlinks(m.cfg.UI.Hyperlinks)
	}
}

// exportCmd writes a snapshot of the conversation in the background.
func (m Model) exportCmd(format string) tea.Cmd {
	conv := m.ctrl.Conversation()
	opts := export.DefaultOptions()
	opts.OutputDir = m.exportDir
	return func() tea.Msg {
		path, err := export.Export(conv, format, opts)
		if err != nil {
			return exportDoneMsg{err: fmt.Errorf("export %s: %w", format, err)}
		}
		return exportDoneMsg{path: path}
	}
}
