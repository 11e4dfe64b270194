// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a conversation transcript to disk.
//
// # Supported Formats
//
//   - Markdown: readable transcript; citation markers become [n] footnotes
//     followed by a numbered source list
//   - JSON: the full turn list including citations and raw sources
//   - YAML: the same document as JSON minus raw sources
//
// # Usage
//
//	path, err := export.Export(conv, "md", export.DefaultOptions())
//
// Export is one-way. Nothing here reads a transcript back.
package export
