// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires the lexchat command line.
//
// Commands:
//
//	lexchat                      Full-screen chat (default)
//	lexchat ask QUESTION         One question, answer on stdout
//	lexchat repl                 Line-mode chat with history
//	lexchat health               Probe the backend
//	lexchat search QUERY         Raw retrieval results
//	lexchat config show|path|init
//	lexchat devserver            Local stand-in backend
//	lexchat version
//
// Global flags --config, --backend and --verbose apply to every command.
// Configuration and the zap logger are set up once in the root command's
// PersistentPreRunE and shared through the app struct.
package cli
