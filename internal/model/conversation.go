// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered, append-only history of a chat session.
// Insertion order is display order. Not safe for concurrent use; the owner
// (the session controller) serializes access.
type Conversation struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	turns     []Turn
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a turn to the end of the conversation.
func (c *Conversation) Append(t Turn) {
	c.turns = append(c.turns, t)
	c.UpdatedAt = time.Now()
}

// Turns returns a copy of the turns in display order.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// IsEmpty returns true if there are no turns.
func (c *Conversation) IsEmpty() bool {
	return len(c.turns) == 0
}

// At returns the turn at index i.
func (c *Conversation) At(i int) (Turn, bool) {
	if i < 0 || i >= len(c.turns) {
		return Turn{}, false
	}
	return c.turns[i], true
}

// Last returns the most recent turn.
func (c *Conversation) Last() (Turn, bool) {
	return c.At(len(c.turns) - 1)
}

// LastUserTurn returns the most recent user turn.
func (c *Conversation) LastUserTurn() (Turn, bool) {
	for i := len(c.turns) - 1; i >= 0; i-- {
		if c.turns[i].IsUser() {
			return c.turns[i], true
		}
	}
	return Turn{}, false
}

// Title returns a short title derived from the first user turn.
func (c *Conversation) Title() string {
	for _, t := range c.turns {
		if t.IsUser() {
			return t.Preview(50)
		}
	}
	return "New conversation"
}
