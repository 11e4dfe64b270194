// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for lexchat.
//
// Supports TOML, JSON and YAML configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Where and how to reach the answer service
//   - UIConfig: Theme and display toggles
//   - LogConfig: Log level and file
//   - Watcher: Reloads the file when it changes on disk
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LEXCHAT_*), including those from ./.env
//   - ~/.lexchat/config.toml
//   - ~/.lexchat/config.json
//   - ~/.lexchat/config.yaml
//   - Built-in defaults
//
// LEXCHAT_HOME replaces ~/.lexchat as the configuration directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := backend.NewClient(cfg.Backend.URL).WithTimeout(cfg.Backend.Timeout())
package config
