// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/lexchat/internal/backend"
	"github.com/jeranaias/lexchat/internal/config"
	"github.com/jeranaias/lexchat/internal/session"
	"github.com/jeranaias/lexchat/internal/ui/components"
	"github.com/jeranaias/lexchat/internal/ui/styles"
)

const (
	inputHeight   = 3
	healthTimeout = 5 * time.Second
	noticeTTL     = 4 * time.Second
)

// Backend is what the chat view needs from the backend client.
type Backend interface {
	session.Chatter
	Health(ctx context.Context) (*backend.HealthResponse, error)
}

// Options configures a chat Model.
type Options struct {
	Backend Backend
	Config  *config.Config
	Logger  *zap.Logger

	// Watcher, when set, applies config file changes without a restart.
	Watcher *config.Watcher

	// Context bounds every request; cancelled when the user quits.
	Context context.Context

	// BackendURL is shown in the status bar and welcome panel.
	BackendURL string
	Version    string

	// ExportDir is where /export writes transcripts. Empty means the
	// working directory.
	ExportDir string
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctrl    *session.Controller
	backend Backend
	cfg     *config.Config
	logger  *zap.Logger
	watcher *config.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	theme    *styles.Theme
	keys     KeyMap
	help     help.Model
	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	header  *components.Header
	status  *components.StatusBar
	welcome components.Welcome

	panel     components.CitationPanel
	panelOpen bool

	// focus indexes focusTargets(); -1 when nothing is focused.
	focus int

	showHelp  bool
	noticeSeq int
	exportDir string

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a chat model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	ctrl := session.NewController(opts.Backend, session.Config{
		AgentType:          cfg.Backend.AgentType,
		Timeout:            cfg.Backend.Timeout(),
		SendConversationID: cfg.Backend.SendConversationID,
	}, logger)

	theme := styles.NewTheme(cfg.UI.Theme)

	ta := textarea.New()
	ta.Placeholder = "Ask a legal question..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(inputHeight)
	ta.Prompt = "> "
	// Enter submits; the newline binding moves to alt+enter / ctrl+j.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	header := components.NewHeader(theme)
	header.AgentType = ctrl.AgentType()

	status := components.NewStatusBar(theme)
	status.Backend = opts.BackendURL

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(opts.Version)
	welcome.SetBackend(opts.BackendURL, ctrl.AgentType())

	return Model{
		ctrl:      ctrl,
		backend:   opts.Backend,
		cfg:       cfg,
		logger:    logger.Named("tui"),
		watcher:   opts.Watcher,
		ctx:       ctx,
		cancel:    cancel,
		theme:     theme,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		input:     ta,
		viewport:  vp,
		spinner:   sp,
		header:    header,
		status:    status,
		welcome:   welcome,
		focus:     -1,
		exportDir: opts.ExportDir,
	}
}

// Init starts the cursor blink, the health probe and the config watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.checkHealth(), m.watchConfig())
}

// Controller exposes the owned controller for the line-mode front ends and
// tests.
func (m Model) Controller() *session.Controller {
	return m.ctrl
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendCmd runs the backend call off the event loop. It reads nothing from
// the model besides the immutable request.
func (m Model) sendCmd(req session.Request) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return responseMsg{result: ctrl.Send(ctx, req)}
	}
}

func (m Model) checkHealth() tea.Cmd {
	if m.backend == nil {
		return nil
	}
	b, parent := m.backend, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, healthTimeout)
		defer cancel()
		resp, err := b.Health(ctx)
		if err != nil {
			return healthMsg{err: err}
		}
		return healthMsg{healthy: resp.Healthy()}
	}
}

// watchConfig waits for the next config file change.
func (m Model) watchConfig() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w, ctx := m.watcher, m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Changes():
			if !ok {
				return nil
			}
			cfg, err := w.Reload()
			return configReloadedMsg{cfg: cfg, err: err}
		}
	}
}

// setNotice shows text in the status bar for a few seconds.
func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	m.status.SetNotice(text)
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
