// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/lexchat/internal/config"
	"github.com/jeranaias/lexchat/internal/export"
	"github.com/jeranaias/lexchat/internal/model"
	"github.com/jeranaias/lexchat/internal/session"
	"github.com/jeranaias/lexchat/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader reads one line of input.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// lineEditor provides input history and line editing for the REPL.
type lineEditor struct {
	line        *liner.State
	historyFile string
}

// newLineEditor creates a line editor backed by the history file in the
// config directory.
func newLineEditor() *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	e := &lineEditor{
		line:        line,
		historyFile: filepath.Join(configDir, "repl_history"),
	}
	e.loadHistory()
	return e
}

func (e *lineEditor) loadHistory() {
	if f, err := os.Open(e.historyFile); err == nil {
		e.line.ReadHistory(f)
		f.Close()
	}
}

// Prompt reads a line and records non-empty input in the history.
func (e *lineEditor) Prompt(prompt string) (string, error) {
	input, err := e.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		e.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists history with owner-only permissions.
func (e *lineEditor) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	e.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (e *lineEditor) Close() {
	e.saveHistory()
	e.line.Close()
}

// =============================================================================
// REPL COMMAND
// =============================================================================

func (a *app) newREPLCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Line-mode chat with input history",
		Long: `Line-mode chat for terminals where the full-screen view is unwanted.

Type a question and press Enter. Answers show footnote numbers; type :N to
read citation N of the latest answer.

Commands:
  /sources           List the citations of the latest answer
  /export [FORMAT]   Write the transcript (md, json, yaml)
  /help              Show this help
  /quit              Exit (Ctrl+D also exits)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor := newLineEditor()
			defer editor.Close()

			r := &repl{
				in:        editor,
				out:       cmd.OutOrStdout(),
				ctrl:      a.newController(a.newClient()),
				logger:    a.logger,
				render:    renderOptions{Markdown: !plain && a.cfg.UI.Markdown && IsStdoutTTY(), Width: GetTerminalWidth()},
				exportDir: a.exportDir(),
				backend:   a.cfg.Backend.URL,
			}
			return r.run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "do not render markdown")
	return cmd
}

// repl is the line-mode chat loop.
type repl struct {
	in        lineReader
	out       io.Writer
	ctrl      *session.Controller
	logger    *zap.Logger
	render    renderOptions
	exportDir string
	backend   string
}

func (r *repl) run(ctx context.Context) error {
	r.printWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := r.in.Prompt("lexchat> ")
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			r.println(infoStyle.Render("(use /quit or Ctrl+D to exit)"))
			continue
		case errors.Is(err, io.EOF):
			r.println("")
			return nil
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, ":"):
			r.openCitation(strings.TrimPrefix(line, ":"))
		case strings.HasPrefix(line, "/"):
			if r.command(line) {
				return nil
			}
		default:
			r.ask(ctx, line)
		}
	}
}

func (r *repl) ask(ctx context.Context, question string) {
	turn, err := r.ctrl.Ask(ctx, question)
	if err != nil {
		r.logger.Warn("repl request failed", zap.Error(err))
	}
	if turn.ID == "" {
		return
	}
	fmt.Fprint(r.out, "\n"+formatAnswer(turn, r.render)+"\n")
}

// lastAnswer returns the newest successful assistant turn.
func (r *repl) lastAnswer() (model.Turn, bool) {
	turns := r.ctrl.Turns()
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].IsAssistant() && !turns[i].Failed {
			return turns[i], true
		}
	}
	return model.Turn{}, false
}

// openCitation prints citation n (1-based) of the latest answer.
func (r *repl) openCitation(arg string) {
	turn, ok := r.lastAnswer()
	if !ok {
		r.println(styles.RenderWarning("no answer yet"))
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(turn.Citations) {
		r.println(styles.RenderWarning(fmt.Sprintf("no citation %s (the latest answer has %d)", strings.TrimSpace(arg), len(turn.Citations))))
		return
	}

	c := turn.Citations[n-1]
	r.ctrl.Select(c)
	fmt.Fprint(r.out, "\n"+formatCitation(n, c, r.render.Width)+"\n")
}

// command runs a slash command and reports whether the REPL should exit.
func (r *repl) command(line string) bool {
	parts := strings.Fields(line)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	switch name {
	case "quit", "q", "exit":
		return true
	case "help", "h", "?":
		r.printHelp()
	case "sources", "s":
		turn, ok := r.lastAnswer()
		if !ok || len(turn.Citations) == 0 {
			r.println(infoStyle.Render("no citations"))
			return false
		}
		for i, c := range turn.Citations {
			fmt.Fprint(r.out, formatSource(i+1, c))
		}
	case "export", "e":
		format := "md"
		if len(args) > 0 {
			format = args[0]
		}
		opts := export.DefaultOptions()
		opts.OutputDir = r.exportDir
		path, err := export.Export(r.ctrl.Conversation(), format, opts)
		if err != nil {
			r.println(styles.RenderError("export failed: " + err.Error()))
			return false
		}
		r.println(styles.RenderSuccess("exported to " + path))
	default:
		r.println(styles.RenderWarning("unknown command " + parts[0] + " (try /help)"))
	}
	return false
}

func (r *repl) printWelcome() {
	r.println(welcomeStyle.Render("lexchat") + " " + infoStyle.Render("line mode, backend "+r.backend))
	r.println(infoStyle.Render("Type a question, :N to open a citation, /help for commands."))
	r.println("")
}

func (r *repl) printHelp() {
	rows := [][2]string{
		{":N", "open citation N of the latest answer"},
		{"/sources", "list the citations of the latest answer"},
		{"/export [md|json|yaml]", "write the transcript"},
		{"/help", "show this help"},
		{"/quit", "exit"},
	}
	for _, row := range rows {
		r.println("  " + commandStyle.Render(fmt.Sprintf("%-24s", row[0])) + infoStyle.Render(row[1]))
	}
}

func (r *repl) println(s string) {
	fmt.Fprintln(r.out, s)
}
