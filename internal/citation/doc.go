// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package citation scans assistant answers for inline citation markers and
// resolves them against the citations returned with the answer.
//
// A marker is "[[" followed by one or more characters other than "]" and
// then "]]". The Tokenizer splits text into literal and marker tokens
// without loss: joining the tokens reproduces the input exactly.
//
// # Usage
//
//	for tok := citation.NewTokenizer(answer); ; {
//	    t, ok := tok.Next()
//	    if !ok {
//	        break
//	    }
//	    ...
//	}
//
// Resolve does the lookup step for a whole turn:
//
//	segments := citation.Resolve(turn)
//
// Markers in user turns are never interpreted, and markers whose identifier
// matches no citation degrade to plain text.
package citation
