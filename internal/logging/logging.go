// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger used across lexchat.
//
// The TUI owns stdout and stderr, so log lines go to a JSON file in the
// config directory (~/.lexchat/lexchat.log by default).
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/lexchat/internal/config"
)

// Options control logger construction.
type Options struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string

	// Path is the log file. Empty means stderr.
	Path string

	// Verbose forces debug level.
	Verbose bool
}

// FromConfig derives Options from the loaded configuration.
func FromConfig(cfg *config.Config, verbose bool) (Options, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return Options{}, err
	}
	return Options{Level: cfg.Log.Level, Path: path, Verbose: verbose}, nil
}

// New builds a production JSON logger.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.Sampling = nil

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zcfg.OutputPaths = []string{opts.Path}
		zcfg.ErrorOutputPaths = []string{opts.Path}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("lexchat"), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// ParseLevel converts a level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
