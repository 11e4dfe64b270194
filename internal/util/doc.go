// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the lexchat packages.
//
// # Key Functions
//
// Display width (CJK aware, via go-runewidth):
//   - TruncateWidth: cut a string to a display width with an ellipsis
//   - Wrap: word wrap that keeps explicit line breaks
//   - PadRight: pad to a display width
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	label := util.TruncateWidth(citation.Label(), 24)
//	body := util.Wrap(citation.Content, 60)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
