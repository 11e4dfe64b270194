// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/lexchat/internal/model"
)

// document is the shape shared by the JSON and YAML exporters.
type document struct {
	ID         string       `json:"id" yaml:"id"`
	Title      string       `json:"title" yaml:"title"`
	CreatedAt  time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" yaml:"updated_at"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Generator  string       `json:"generator" yaml:"generator"`
	Turns      []model.Turn `json:"turns" yaml:"turns"`
}

func newDocument(conv *model.Conversation) document {
	return document{
		ID:         conv.ID,
		Title:      conv.Title(),
		CreatedAt:  conv.CreatedAt,
		UpdatedAt:  conv.UpdatedAt,
		ExportedAt: time.Now(),
		Generator:  Generator,
		Turns:      conv.Turns(),
	}
}

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports conversations to JSON format. The output always
// carries the complete turn list, raw sources included.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a conversation to JSON format.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}
	return json.MarshalIndent(newDocument(conv), "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
