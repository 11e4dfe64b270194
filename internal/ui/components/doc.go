// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual pieces of the lexchat TUI: message
// bubbles with citation references and badges, the citation detail panel,
// the header, the status bar and the welcome panel.
//
// Components render from plain values and the shared styles.Theme. The
// citation panel is the only one with an Update method; it emits
// CitationDismissedMsg on Esc and the parent clears its selection.
package components
