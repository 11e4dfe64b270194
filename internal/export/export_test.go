// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/lexchat/internal/model"
)

func sampleConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.Append(model.NewUserTurn("Is theft a crime?"))
	conv.Append(model.NewAssistantTurn(
		"Yes. See [[c1]] and also [[missing]].",
		[]model.Citation{{
			SourceID:    "c1",
			ArticleName: "Criminal Code",
			Section:     "Art. 5",
			Content:     "Whoever steals...",
			URL:         "https://example.com/cc/5",
		}},
		[]model.Source{json.RawMessage(`{"id":"c1","score":0.9}`)},
	))
	return conv
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		name string
		ext  string
	}{
		{"", ".md"},
		{"md", ".md"},
		{"Markdown", ".md"},
		{"json", ".json"},
		{"yaml", ".yaml"},
		{"yml", ".yaml"},
	}
	for _, tt := range tests {
		exp, err := ForFormat(tt.name, nil)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.ext, exp.FileExtension(), tt.name)
	}

	_, err := ForFormat("html", nil)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleConversation())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "title: Is theft a crime?")
	assert.Contains(t, md, "# Is theft a crime?")
	assert.Contains(t, md, "Yes. See [1] and also [[missing]].")
	assert.Contains(t, md, "1. [Criminal Code Art. 5](https://example.com/cc/5)")
	assert.Contains(t, md, "[User]")
	assert.Contains(t, md, "[Assistant]")
}

func TestMarkdownExportWithoutMetadata(t *testing.T) {
	opts := &Options{IncludeMetadata: false}
	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	require.NoError(t, err)

	assert.False(t, strings.HasPrefix(string(out), "---\n"))
	assert.NotContains(t, string(out), "Session Information")
	assert.NotContains(t, string(out), "<sub>")
}

func TestMarkdownFailedTurn(t *testing.T) {
	conv := model.NewConversation()
	conv.Append(model.NewUserTurn("hello"))
	conv.Append(model.NewFailureTurn("Sorry"))

	out, err := NewMarkdownExporter(nil).Export(conv)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[Assistant] (failed)")
}

func TestJSONExport(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(sampleConversation())
	require.NoError(t, err)

	var doc struct {
		Title     string `json:"title"`
		Generator string `json:"generator"`
		Turns     []struct {
			Role      string            `json:"role"`
			Content   string            `json:"content"`
			Citations []model.Citation  `json:"citations"`
			Sources   []json.RawMessage `json:"sources"`
		} `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, "Is theft a crime?", doc.Title)
	assert.Equal(t, Generator, doc.Generator)
	require.Len(t, doc.Turns, 2)
	assert.Equal(t, "Yes. See [[c1]] and also [[missing]].", doc.Turns[1].Content)
	require.Len(t, doc.Turns[1].Citations, 1)
	assert.Equal(t, "c1", doc.Turns[1].Citations[0].SourceID)
	require.Len(t, doc.Turns[1].Sources, 1)
	assert.JSONEq(t, `{"id":"c1","score":0.9}`, string(doc.Turns[1].Sources[0]))
}

func TestYAMLExport(t *testing.T) {
	out, err := NewYAMLExporter(nil).Export(sampleConversation())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "Is theft a crime?", doc["title"])

	turns, ok := doc["turns"].([]interface{})
	require.True(t, ok)
	require.Len(t, turns, 2)
	assistant := turns[1].(map[string]interface{})
	assert.NotContains(t, assistant, "sources")
	assert.Contains(t, assistant, "citations")
}

func TestEmptyConversationRejected(t *testing.T) {
	for _, exp := range []Exporter{NewMarkdownExporter(nil), NewJSONExporter(nil), NewYAMLExporter(nil)} {
		_, err := exp.Export(model.NewConversation())
		assert.ErrorIs(t, err, ErrEmptyConversation, exp.FileExtension())

		_, err = exp.Export(nil)
		assert.Error(t, err)
	}
}

func TestExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = filepath.Join(dir, "exports")

	path, err := Export(sampleConversation(), "json", opts)
	require.NoError(t, err)

	assert.Equal(t, opts.OutputDir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "conversation_Is_theft_a_crime-_"))
	assert.Equal(t, ".json", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "conversation"},
		{"a/b\\c", "a-b-c"},
		{"what is [[c1]]?", "what_is_--c1---"},
		{"tab\there", "tab_here"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
