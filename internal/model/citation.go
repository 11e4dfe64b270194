// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
)

// Citation is a reference to a legal source text. The field names follow
// the backend's wire format.
type Citation struct {
	SourceID    string `json:"source_id" yaml:"source_id"`
	ArticleName string `json:"article_name" yaml:"article_name"`
	Section     string `json:"section,omitempty" yaml:"section,omitempty"`
	Content     string `json:"content" yaml:"content"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Label returns the short badge text: the article name followed by the
// section when there is one.
func (c Citation) Label() string {
	return strings.TrimSpace(c.ArticleName + " " + c.Section)
}

// HasURL reports whether the citation carries an external link.
func (c Citation) HasURL() bool {
	return strings.TrimSpace(c.URL) != ""
}

// Source is one raw retrieval record from the backend. It is kept byte for
// byte and never interpreted.
type Source = json.RawMessage
