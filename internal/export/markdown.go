// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/lexchat/internal/citation"
	"github.com/jeranaias/lexchat/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// frontMatter is the YAML header of a Markdown export.
type frontMatter struct {
	Title     string `yaml:"title"`
	ID        string `yaml:"id"`
	Date      string `yaml:"date"`
	Updated   string `yaml:"updated"`
	Turns     int    `yaml:"turns"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// Export converts a conversation to Markdown format.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		fm, err := yaml.Marshal(frontMatter{
			Title:     conv.Title(),
			ID:        conv.ID,
			Date:      conv.CreatedAt.Format(time.RFC3339),
			Updated:   conv.UpdatedAt.Format(time.RFC3339),
			Turns:     conv.Len(),
			Exported:  time.Now().Format(time.RFC3339),
			Generator: Generator,
		})
		if err != nil {
			return nil, fmt.Errorf("encode front matter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(fm)
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(conv.Title())))

	if e.options.IncludeMetadata {
		sb.WriteString("## Session Information\n\n")
		sb.WriteString(fmt.Sprintf("- **Created**: %s\n", formatTimestamp(conv.CreatedAt)))
		sb.WriteString(fmt.Sprintf("- **Last Updated**: %s\n", formatTimestamp(conv.UpdatedAt)))
		sb.WriteString(fmt.Sprintf("- **Turns**: %d\n", conv.Len()))
		sb.WriteString("\n---\n\n")
	}

	sb.WriteString("## Conversation\n\n")

	turns := conv.Turns()
	for i, turn := range turns {
		label := e.formatRoleLabel(turn)
		if e.options.IncludeTimestamps && !turn.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(turn.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(e.formatTurnContent(turn))
		sb.WriteString("\n\n")

		if sources := e.formatSources(turn); sources != "" {
			sb.WriteString(sources)
			sb.WriteString("\n")
		}

		if i < len(turns)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from lexchat on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func (e *MarkdownExporter) formatRoleLabel(turn model.Turn) string {
	if turn.Failed {
		return "[Assistant] (failed)"
	}
	switch turn.Role {
	case model.RoleUser:
		return "[User]"
	case model.RoleAssistant:
		return "[Assistant]"
	default:
		return "[" + turn.Role.DisplayName() + "]"
	}
}

// formatTurnContent rewrites resolved markers in assistant turns to [n]
// footnotes. User text is written as typed.
func (e *MarkdownExporter) formatTurnContent(turn model.Turn) string {
	if turn.IsAssistant() {
		return strings.TrimSpace(citation.Plain(turn))
	}
	return strings.TrimSpace(turn.Content)
}

// formatSources renders the numbered source list of an assistant turn.
func (e *MarkdownExporter) formatSources(turn model.Turn) string {
	if len(turn.Citations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("**Sources**\n\n")
	for i, c := range turn.Citations {
		label := escapeMarkdown(c.Label())
		if c.HasURL() {
			label = fmt.Sprintf("[%s](%s)", label, c.URL)
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, label))
	}
	return sb.String()
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}
