// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/lexchat/internal/backend"
	"github.com/jeranaias/lexchat/internal/config"
	"github.com/jeranaias/lexchat/internal/logging"
	"github.com/jeranaias/lexchat/internal/session"
	"github.com/jeranaias/lexchat/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app carries the global flags and what PersistentPreRunE builds from them.
type app struct {
	configPath string
	backendURL string
	verbose    bool

	cfg     *config.Config
	cfgPath string
	logger  *zap.Logger
}

// NewRootCommand builds the lexchat command tree.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "lexchat",
		Short: "Chat with a legal question-answering service",
		Long: `lexchat is a terminal client for a retrieval-backed legal answer service.

Answers reference their sources inline. Tab through the references and
press Enter or Ctrl+O to read the cited article.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
		PersistentPostRun: func(cmd *cobra.Command, args []string) { _ = a.logger.Sync() },
		RunE:              a.runTUI,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default ~/.lexchat/config.toml)")
	flags.StringVarP(&a.backendURL, "backend", "b", "", "backend service URL, overrides the config")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.newAskCommand(),
		a.newREPLCommand(),
		a.newHealthCommand(),
		a.newSearchCommand(),
		a.newConfigCommand(),
		a.newDevServerCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

// =============================================================================
// SETUP
// =============================================================================

// setup loads configuration and builds the logger.
func (a *app) setup() error {
	cfg, path, err := a.loadConfig()
	if err != nil {
		return err
	}
	if a.backendURL != "" {
		cfg.Backend.URL = a.backendURL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --backend: %w", err)
		}
	}

	opts, err := logging.FromConfig(cfg, a.verbose)
	if err != nil {
		return err
	}
	logger, err := logging.New(opts)
	if err != nil {
		return err
	}

	a.cfg, a.cfgPath, a.logger = cfg, path, logger
	config.SetGlobal(cfg)
	a.logger.Debug("configuration loaded",
		zap.String("path", path),
		zap.String("backend", cfg.Backend.URL),
		zap.String("agent_type", cfg.Backend.AgentType))
	return nil
}

func (a *app) loadConfig() (*config.Config, string, error) {
	if a.configPath != "" {
		if err := config.LoadDotEnv(".env"); err != nil {
			return nil, "", err
		}
		if _, err := os.Stat(a.configPath); err != nil {
			// A named but missing file is fine for `config init`.
			cfg := config.Default()
			cfg.ApplyEnvOverrides()
			return cfg, a.configPath, nil
		}
		cfg, err := config.LoadFromPath(a.configPath)
		return cfg, a.configPath, err
	}

	path, err := config.ResolvePath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load()
	return cfg, path, err
}

// newClient builds a backend client from the loaded configuration.
func (a *app) newClient() *backend.Client {
	b := a.cfg.Backend
	return backend.NewClient(b.URL).
		WithTimeout(b.Timeout()).
		WithMaxResponseSize(b.MaxResponseBytes()).
		WithRateLimit(b.RequestsPerSecond).
		WithLogger(a.logger)
}

// newController builds a conversation controller for the line-mode
// commands.
func (a *app) newController(client session.Chatter) *session.Controller {
	return session.NewController(client, session.Config{
		AgentType:          a.cfg.Backend.AgentType,
		Timeout:            a.cfg.Backend.Timeout(),
		SendConversationID: a.cfg.Backend.SendConversationID,
	}, a.logger)
}

// exportDir is where transcripts are written: <config dir>/exports.
func (a *app) exportDir() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return "exports"
	}
	return filepath.Join(dir, "exports")
}

// =============================================================================
// FULL-SCREEN CHAT
// =============================================================================

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	if !IsTTY() {
		return fmt.Errorf("the chat view needs a terminal; use 'lexchat ask' or 'lexchat repl' instead")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var watcher *config.Watcher
	if _, err := os.Stat(a.cfgPath); err == nil {
		w, err := config.NewWatcher(a.cfgPath)
		if err != nil {
			a.logger.Warn("config watcher disabled", zap.Error(err))
		} else {
			watcher = w
			defer w.Close()
		}
	}

	m := chat.New(chat.Options{
		Backend:    a.newClient(),
		Config:     a.cfg,
		Logger:     a.logger,
		Watcher:    watcher,
		Context:    ctx,
		BackendURL: a.cfg.Backend.URL,
		Version:    Version,
		ExportDir:  a.exportDir(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	a.logger.Info("starting chat", zap.String("backend", a.cfg.Backend.URL))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}
