// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn is one entry in a conversation.
type Turn struct {
	ID        string    `json:"id" yaml:"id"`
	Role      Role      `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Assistant turns only.
	Citations []Citation `json:"citations,omitempty" yaml:"citations,omitempty"`
	Sources   []Source   `json:"sources,omitempty" yaml:"-"`

	// Failed marks the fixed apology turn appended when a request fails.
	Failed bool `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// NewUserTurn creates a user turn with a fresh ID.
func NewUserTurn(content string) Turn {
	return Turn{
		ID:        NewID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantTurn creates an assistant turn carrying the backend's answer.
// The citation and source slices are copied so later changes by the caller
// cannot reach into the turn.
func NewAssistantTurn(answer string, citations []Citation, sources []Source) Turn {
	return Turn{
		ID:        NewID(),
		Role:      RoleAssistant,
		Content:   answer,
		Timestamp: time.Now(),
		Citations: cloneCitations(citations),
		Sources:   cloneSources(sources),
	}
}

// NewFailureTurn creates the assistant turn shown when a request fails.
func NewFailureTurn(text string) Turn {
	return Turn{
		ID:        NewID(),
		Role:      RoleAssistant,
		Content:   text,
		Timestamp: time.Now(),
		Failed:    true,
	}
}

// NewID returns a fresh unique identifier for turns and conversations.
func NewID() string {
	return uuid.NewString()
}

// =============================================================================
// TURN METHODS
// =============================================================================

// IsUser reports whether the turn was authored by the user.
func (t Turn) IsUser() bool {
	return t.Role == RoleUser
}

// IsAssistant reports whether the turn was authored by the assistant.
func (t Turn) IsAssistant() bool {
	return t.Role == RoleAssistant
}

// FindCitation looks up a citation by exact source ID. Identifiers are
// unique within a turn; if the backend sends duplicates the first wins.
func (t Turn) FindCitation(sourceID string) (Citation, bool) {
	for _, c := range t.Citations {
		if c.SourceID == sourceID {
			return c, true
		}
	}
	return Citation{}, false
}

// HasCitations reports whether the turn carries any citations.
func (t Turn) HasCitations() bool {
	return len(t.Citations) > 0
}

// Preview returns the first maxLen runes of the content.
func (t Turn) Preview(maxLen int) string {
	runes := []rune(t.Content)
	if len(runes) <= maxLen {
		return t.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func cloneCitations(in []Citation) []Citation {
	if len(in) == 0 {
		return nil
	}
	out := make([]Citation, len(in))
	copy(out, in)
	return out
}

func cloneSources(in []Source) []Source {
	if len(in) == 0 {
		return nil
	}
	out := make([]Source, len(in))
	for i, s := range in {
		out[i] = append(Source(nil), s...)
	}
	return out
}
