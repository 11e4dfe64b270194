// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lexchat/internal/ui/styles"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command.
type CommandHandler func(m *Model, args []string) (tea.Model, tea.Cmd)

// commandHandlers maps command names to their handler functions.
var commandHandlers = map[string]CommandHandler{
	"help":   handleHelpCommand,
	"h":      handleHelpCommand,
	"?":      handleHelpCommand,
	"export": handleExportCommand,
	"e":      handleExportCommand,
	"health": handleHealthCommand,
	"quit":   handleQuitCommand,
	"q":      handleQuitCommand,
	"exit":   handleQuitCommand,
}

// handleCommand runs a slash command and clears the input.
func (m Model) handleCommand(content string) (tea.Model, tea.Cmd) {
	m.input.Reset()

	parts := strings.Fields(content)
	if len(parts) == 0 {
		return m, nil
	}

	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	if handler, ok := commandHandlers[name]; ok {
		return handler(&m, args)
	}

	m.refresh()
	return m, m.setNotice(styles.StatusIndicators.Warning + " unknown command " + parts[0] + " (try /help)")
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelpCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	m.showHelp = !m.showHelp
	m.refresh()
	return *m, nil
}

func handleQuitCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return *m, tea.Quit
}

// handleExportCommand: /export [md|json|yaml]
func handleExportCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	format := "md"
	if len(args) > 0 {
		format = args[0]
	}
	m.refresh()
	return *m, tea.Batch(m.setNotice("exporting..."), m.exportCmd(format))
}

func handleHealthCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	m.refresh()
	return *m, tea.Batch(m.setNotice("checking backend..."), m.checkHealth())
}
