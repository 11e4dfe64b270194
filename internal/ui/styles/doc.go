// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the lexchat TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. A Theme bundles the lipgloss styles used by the components and
the chat model.

# Color System (colors.go)

  - Purple - Primary accent, assistant labels, focused references
  - Cyan - Brand color, key hints, user labels
  - Emerald - Healthy backend, success toasts
  - Amber - Waiting state, warnings
  - Rose - Errors and the failure turn

Citation colors:

	ReferenceFg   - Inline reference that resolved to a citation
	UnresolvedFg  - Marker text with no matching citation
	BadgeBg/Fg    - Citation badge row under an answer
	PanelBorder   - Border of the citation detail panel

# Theme (theme.go)

	theme := styles.NewTheme("auto")
	theme.SetSize(width, height)
	if theme.GetLayoutMode() == styles.LayoutWide {
		// panel beside the conversation
	}

Theme modes are "auto" (ask the terminal), "dark" and "light".

# Accessibility

Status output always pairs color with an ASCII indicator ([OK], [X], [!],
[i]) and links are underlined, so nothing relies on color alone.
*/
package styles
