// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package devserver is a small stand-in for the legal answer service.
//
// It serves the same HTTP surface the chat client talks to:
//   - GET  /           - service banner
//   - GET  /health     - {"status": "healthy"}
//   - POST /api/chat   - answer a question with [[source_id]] markers
//   - GET  /api/search - keyword search over the built-in corpus
//
// Answers are assembled from keyword hits over a handful of statute and
// case excerpts, so the server needs no model or vector store. It exists
// for local development, demos and the client integration tests.
//
// Usage:
//
//	srv := devserver.New(devserver.Options{Addr: "127.0.0.1:8000", Logger: logger})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package devserver
