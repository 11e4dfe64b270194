// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"encoding/json"

	"github.com/jeranaias/lexchat/internal/model"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message        string `json:"message"`
	AgentType      string `json:"agent_type"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is a decoded answer.
type ChatResponse struct {
	Answer    string           `json:"answer"`
	Citations []model.Citation `json:"citations"`
	Sources   []model.Source   `json:"sources"`
}

// chatWire detects a missing answer field, which a plain string cannot.
type chatWire struct {
	Answer    *string          `json:"answer"`
	Citations []model.Citation `json:"citations"`
	Sources   []model.Source   `json:"sources"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Healthy reports whether the service described itself as healthy.
func (h *HealthResponse) Healthy() bool {
	return h != nil && h.Status == "healthy"
}

// SearchResult is one retrieval hit.
type SearchResult struct {
	SourceID    string                     `json:"source_id"`
	ArticleName string                     `json:"article_name"`
	Section     string                     `json:"section,omitempty"`
	Content     string                     `json:"content"`
	DocType     string                     `json:"doc_type,omitempty"`
	URL         string                     `json:"url,omitempty"`
	Score       float64                    `json:"score"`
	Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
}

// Citation converts a hit into the citation shape used by chat answers.
func (r SearchResult) Citation() model.Citation {
	return model.Citation{
		SourceID:    r.SourceID,
		ArticleName: r.ArticleName,
		Section:     r.Section,
		Content:     r.Content,
		URL:         r.URL,
	}
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// errorBody is the error shape produced by the service ({"detail": "..."}).
type errorBody struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}
