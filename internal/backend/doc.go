// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the legal-answer service.
//
// The service exposes three endpoints:
//
//   - POST /api/chat: answer a question, returning text with [[source_id]]
//     markers plus the citations and raw sources behind it
//   - GET /health: liveness probe
//   - GET /api/search: raw retrieval over the statute corpus
//
// # Usage
//
//	client := backend.NewClient("http://localhost:8000").
//	    WithTimeout(60 * time.Second).
//	    WithLogger(logger)
//
//	resp, err := client.Chat(ctx, backend.ChatRequest{
//	    Message:   "What is the penalty for theft?",
//	    AgentType: backend.DefaultAgentType,
//	})
//
// # Errors
//
// Non-2xx responses return *StatusError. Bodies that cannot be decoded, or
// that lack the answer field, wrap ErrMalformedResponse. Callers showing a
// conversation treat every error the same way; the distinction exists for
// logs.
package backend
