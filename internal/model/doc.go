// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, turns and
// citations.
//
// # Key Types
//
//   - Citation: A legal source returned alongside an assistant answer
//   - Turn: One conversation entry (user or assistant) with optional citations
//   - Source: Opaque retrieval record passed through from the backend
//   - Conversation: Append-only, ordered list of turns
//
// Turns and citations are values: once a turn is appended it is never edited
// or removed for the lifetime of the conversation.
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.Append(model.NewUserTurn("What is the penalty for theft?"))
//	conv.Append(model.NewAssistantTurn(answer, citations, sources))
package model
