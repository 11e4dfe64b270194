// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/lexchat/internal/session"
	"github.com/jeranaias/lexchat/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status
type Status int

const (
	StatusReady Status = iota
	StatusWaiting
	StatusError
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusWaiting:
		return "Thinking..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator for the status.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusWaiting:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// Health is the last known result of the backend health probe.
type Health int

const (
	HealthUnknown Health = iota
	HealthUp
	HealthDown
)

// String returns the display string for the health state.
func (h Health) String() string {
	switch h {
	case HealthUp:
		return "online"
	case HealthDown:
		return "offline"
	default:
		return "checking"
	}
}

// StatusBar is the bottom line of the chat screen.
type StatusBar struct {
	Status    Status
	Health    Health
	Backend   string // base URL, shown in the wide layout
	AgentType string
	Turns     int
	Elapsed   time.Duration // session duration
	Notice    string        // transient message, e.g. "Exported to ..."
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus sets the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetHealth records the last health probe result.
func (s *StatusBar) SetHealth(h Health) {
	s.Health = h
}

// SetNotice sets the transient notice; empty clears it.
func (s *StatusBar) SetNotice(notice string) {
	s.Notice = notice
}

// ApplySessionStatus copies the controller snapshot into the bar.
func (s *StatusBar) ApplySessionStatus(st session.Status) {
	s.AgentType = st.AgentType
	s.Turns = st.Turns
	s.Elapsed = st.Duration
	if st.State == session.StateWaiting {
		s.Status = StatusWaiting
	} else if s.Status == StatusWaiting {
		s.Status = StatusReady
	}
}

// View renders the status bar, choosing a layout from the width.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow: status icon, health, notice.
func (s *StatusBar) viewNarrow() string {
	parts := []string{
		s.getStatusStyle().Render(s.Status.Icon()),
		s.renderHealth(),
	}
	if s.Notice != "" {
		parts = append(parts, s.Notice)
	}
	return s.frame(strings.Join(parts, " "))
}

// viewMedium: status | health | agent | turns, shortcuts on the right.
func (s *StatusBar) viewMedium() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	left := []string{
		s.getStatusStyle().Render(s.Status.Icon() + " " + s.Status.String()),
		s.renderHealth(),
	}
	if s.AgentType != "" {
		left = append(left, s.AgentType)
	}
	left = append(left, pluralTurns(s.Turns))
	if s.Notice != "" {
		left = append(left, s.Notice)
	}
	return s.frame(s.alignRight(strings.Join(left, sep), s.renderShortcuts()))
}

// viewWide adds the backend URL and session duration.
func (s *StatusBar) viewWide() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	left := []string{
		s.getStatusStyle().Render(s.Status.Icon() + " " + s.Status.String()),
		s.renderHealth(),
	}
	if s.Backend != "" {
		left = append(left, s.Backend)
	}
	if s.AgentType != "" {
		left = append(left, s.AgentType)
	}
	left = append(left, pluralTurns(s.Turns), session.FormatDuration(s.Elapsed))
	if s.Notice != "" {
		left = append(left, s.Notice)
	}
	return s.frame(s.alignRight(strings.Join(left, sep), s.renderShortcuts()))
}

func (s *StatusBar) frame(content string) string {
	return s.theme.StatusBar.Width(s.Width).MaxHeight(1).Render(content)
}

// alignRight places right at the end of the line when there is room.
func (s *StatusBar) alignRight(left, right string) string {
	gap := s.Width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (s *StatusBar) renderHealth() string {
	switch s.Health {
	case HealthUp:
		return s.theme.SuccessStyle.Render(styles.StatusIndicators.Active + " " + s.Health.String())
	case HealthDown:
		return s.theme.ErrorStyle.Render(styles.StatusIndicators.Error + " " + s.Health.String())
	default:
		return s.theme.ShortcutDesc.Render(styles.StatusIndicators.Pending + " " + s.Health.String())
	}
}

// renderShortcuts renders keyboard shortcut hints
func (s *StatusBar) renderShortcuts() string {
	shortcuts := []string{
		s.theme.ShortcutKey.Render("tab") + s.theme.ShortcutDesc.Render(" cite"),
		s.theme.ShortcutKey.Render("^E") + s.theme.ShortcutDesc.Render(" export"),
		s.theme.ShortcutKey.Render("^C") + s.theme.ShortcutDesc.Render(" quit"),
	}
	return strings.Join(shortcuts, " ")
}

func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusWaiting:
		return s.theme.WarningStyle
	case StatusError:
		return s.theme.ErrorStyle
	default:
		return s.theme.SuccessStyle
	}
}

func pluralTurns(n int) string {
	if n == 1 {
		return "1 turn"
	}
	return fmt.Sprintf("%d turns", n)
}
