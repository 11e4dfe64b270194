// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/lexchat/internal/config"
	"github.com/jeranaias/lexchat/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// responseMsg carries the outcome of one backend request.
type responseMsg struct {
	result session.Result
}

// healthMsg carries the result of a health probe.
type healthMsg struct {
	healthy bool
	err     error
}

// configReloadedMsg is sent when the watched config file changed.
type configReloadedMsg struct {
	cfg *config.Config
	err error
}

// exportDoneMsg reports a finished transcript export.
type exportDoneMsg struct {
	path string
	err  error
}

// noticeExpiredMsg clears the status bar notice if it is still the one
// identified by seq.
type noticeExpiredMsg struct {
	seq int
}
