// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/lexchat/internal/citation"
	"github.com/jeranaias/lexchat/internal/model"
	"github.com/jeranaias/lexchat/internal/session"
	"github.com/jeranaias/lexchat/internal/ui/styles"
	"github.com/jeranaias/lexchat/internal/util"
)

// =============================================================================
// ASK COMMAND
// =============================================================================

func (a *app) newAskCommand() *cobra.Command {
	var (
		jsonOut bool
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask one question and print the answer",
		Example: `  lexchat ask "Is self-defense punishable?"
  lexchat ask --json "What is the sentence for intentional injury?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			opts := renderOptions{
				Markdown: !plain && a.cfg.UI.Markdown && IsStdoutTTY(),
				Width:    GetTerminalWidth(),
			}
			ctrl := a.newController(a.newClient())
			if jsonOut {
				return outputJSON(cmd.OutOrStdout(), "ask", func() (any, error) {
					return askJSON(cmd.Context(), ctrl, question)
				})
			}
			return ask(cmd.Context(), cmd.OutOrStdout(), ctrl, question, opts)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the answer as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "do not render markdown")
	return cmd
}

func ask(ctx context.Context, out io.Writer, ctrl *session.Controller, question string, opts renderOptions) error {
	turn, err := ctrl.Ask(ctx, question)
	if turn.Failed {
		// The apology still goes to stdout; the cause is the returned error.
		_, _ = io.WriteString(out, formatAnswer(turn, opts))
	}
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	_, err = io.WriteString(out, formatAnswer(turn, opts))
	return err
}

func askJSON(ctx context.Context, ctrl *session.Controller, question string) (any, error) {
	turn, err := ctrl.Ask(ctx, question)
	if err != nil {
		return nil, err
	}
	return AskData{
		Question:  question,
		Answer:    turn.Content,
		Plain:     citation.Plain(turn),
		Citations: turn.Citations,
		Sources:   turn.Sources,
	}, nil
}

// =============================================================================
// ANSWER RENDERING
// =============================================================================

type renderOptions struct {
	Markdown bool
	Width    int
}

var (
	sourcesTitleStyle = lipgloss.NewStyle().Bold(true)
	footnoteStyle     = lipgloss.NewStyle().Foreground(styles.ReferenceFg).Bold(true)
	mutedStyle        = lipgloss.NewStyle().Foreground(styles.TextMuted)
)

// formatAnswer renders an assistant turn for line output: markers become
// footnote numbers and the citations are listed underneath.
func formatAnswer(turn model.Turn, opts renderOptions) string {
	width := opts.Width
	if width <= 0 {
		width = DefaultTerminalWidth
	}

	body := citation.Plain(turn)
	if opts.Markdown {
		body = strings.TrimRight(renderMarkdown(body, width), "\n")
	} else {
		body = util.Wrap(body, width)
	}

	var sb strings.Builder
	if turn.Failed {
		sb.WriteString(styles.RenderError(body))
	} else {
		sb.WriteString(body)
	}
	sb.WriteString("\n")

	if len(turn.Citations) > 0 {
		sb.WriteString("\n" + sourcesTitleStyle.Render("Sources:") + "\n")
		for i, c := range turn.Citations {
			sb.WriteString(formatSource(i+1, c))
		}
	}
	return sb.String()
}

func formatSource(n int, c model.Citation) string {
	line := fmt.Sprintf("  %s %s\n", footnoteStyle.Render(fmt.Sprintf("[%d]", n)), c.Label())
	if c.HasURL() {
		line += "      " + mutedStyle.Render(c.URL) + "\n"
	}
	return line
}

// formatCitation renders the full detail of one citation.
func formatCitation(n int, c model.Citation, width int) string {
	var sb strings.Builder
	sb.WriteString(sourcesTitleStyle.Render(fmt.Sprintf("[%d] %s", n, c.Label())) + "\n\n")
	sb.WriteString(util.Wrap(c.Content, width) + "\n")
	if c.HasURL() {
		sb.WriteString("\n" + styles.RenderLink(c.URL) + "\n")
	}
	return sb.String()
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	markdownOnce     sync.Once
	markdownRenderer *glamour.TermRenderer
	markdownWidth    int
)

// renderMarkdown renders markdown for terminal display. It returns the
// content unchanged if the renderer cannot be built or fails.
func renderMarkdown(content string, width int) string {
	markdownOnce.Do(func() {
		markdownWidth = width
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	if markdownRenderer == nil {
		return util.Wrap(content, width)
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return util.Wrap(content, markdownWidth)
	}
	return rendered
}
