// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view of the lexchat TUI.

The Model is a Bubble Tea model that owns one session.Controller and renders
its conversation. All controller mutation happens in Update on the Bubble
Tea event loop; the backend call runs as a tea.Cmd and reports back with a
responseMsg.

# Layout

	header
	conversation viewport   | citation panel (wide terminals)
	citation panel          (narrow terminals, stacked)
	thinking line
	input
	status bar

# Keys

	enter             send (or open the focused citation when the input is empty)
	alt+enter, C-j    new line
	tab, shift+tab    move focus across citation references and badges
	C-o               open the focused citation
	esc               close the citation panel, then clear focus
	PgUp/PgDn         scroll the conversation (the panel while it is open)
	C-e               export the transcript as Markdown
	f1                toggle full help
	C-c               quit

# Slash Commands

	/help                 toggle full help
	/export [md|json|yaml]
	/health               probe the backend
	/quit

# Usage

	m := chat.New(chat.Options{
		Backend: client,
		Config:  cfg,
		Logger:  logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
*/
package chat
