// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the conversation controller.
//
// The Controller is the single owner of conversation state: the ordered
// turns, the pending flag and the selected citation. Every change goes
// through one of its actions:
//
//   - Submit: validate input, append the user turn, enter the waiting state
//   - Send: perform the backend call for a submitted request
//   - Complete: append the answer (or the apology turn) and return to idle
//   - Select / ClearSelection: local citation selection
//
// # Usage
//
// Event-loop callers split the exchange so the network call runs off the
// loop:
//
//	req, ok := ctrl.Submit(input)
//	if !ok {
//	    return nil
//	}
//	return func() tea.Msg {
//	    return ResultMsg{ctrl.Send(ctx, req)}
//	}
//
// Line-mode callers use Ask, which does all three steps.
package session
