// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lexchat/internal/backend"
)

func sourceIDs(results []backend.SearchResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.SourceID)
	}
	return ids
}

// =============================================================================
// SEARCH TESTS
// =============================================================================

func TestSearch(t *testing.T) {
	corpus := NewCorpus(DefaultCorpus())

	tests := []struct {
		name  string
		query string
		topK  int
		want  []string
	}{
		{"single hit", "homicide", 5, []string{"criminal-232"}},
		{"punctuation trimmed", "Homicide?", 5, []string{"criminal-232"}},
		{"case folded", "HOMICIDE", 5, []string{"criminal-232"}},
		{"ties keep corpus order", "injury", 5, []string{"criminal-234", "civil-1179", "case-001"}},
		{"top k", "injury", 2, []string{"criminal-234", "civil-1179"}},
		{"no match", "maritime salvage", 5, []string{}},
		{"blank", "   ", 5, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := corpus.Search(tt.query, tt.topK)
			assert.Equal(t, tt.want, sourceIDs(got))
		})
	}
}

func TestSearch_Scoring(t *testing.T) {
	corpus := NewCorpus([]Document{
		{SourceID: "a", ArticleName: "Civil Code", Section: "Article 1", Content: "contracts bind the parties"},
		{SourceID: "b", ArticleName: "Criminal Law", Section: "Article 2", Content: "civil matters are excluded"},
	})

	got := corpus.Search("civil", 5)
	require.Len(t, got, 2)
	// Content matches weigh twice as much as article name matches.
	assert.Equal(t, "b", got[0].SourceID)
	assert.InDelta(t, 0.2, got[0].Score, 1e-9)
	assert.Equal(t, "a", got[1].SourceID)
	assert.InDelta(t, 0.1, got[1].Score, 1e-9)
}

func TestSearch_DefaultsTopK(t *testing.T) {
	docs := make([]Document, 0, 10)
	for i := 0; i < 10; i++ {
		docs = append(docs, Document{SourceID: strings.Repeat("x", i+1), Content: "tort"})
	}
	got := NewCorpus(docs).Search("tort", 0)
	assert.Len(t, got, DefaultTopK)
}

func TestSearch_Metadata(t *testing.T) {
	got := NewCorpus(DefaultCorpus()).Search("homicide", 1)
	require.Len(t, got, 1)
	require.Contains(t, got[0].Metadata, "effective_date")

	var date string
	require.NoError(t, json.Unmarshal(got[0].Metadata["effective_date"], &date))
	assert.Equal(t, "2021-03-01", date)
}

// =============================================================================
// ANSWER TESTS
// =============================================================================

func TestConsult_NoHits(t *testing.T) {
	resp := consult(nil)
	assert.Equal(t, NoResultsAnswer, resp.Answer)
	assert.NotNil(t, resp.Citations)
	assert.Empty(t, resp.Citations)
	assert.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
}

func TestConsult_CitesHits(t *testing.T) {
	hits := NewCorpus(DefaultCorpus()).Search("injury", 5)
	resp := consult(hits)

	for _, id := range []string{"criminal-234", "civil-1179", "case-001"} {
		assert.Contains(t, resp.Answer, "[["+id+"]]")
	}
	require.Len(t, resp.Citations, 3)
	assert.Equal(t, "criminal-234", resp.Citations[0].SourceID)
	assert.Equal(t, "Criminal Law Article 234", resp.Citations[0].Label())
	assert.Len(t, resp.Sources, 3)
}

func TestConsult_CapsCitedHits(t *testing.T) {
	hits := make([]backend.SearchResult, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		hits = append(hits, backend.SearchResult{SourceID: id, ArticleName: "Code", Content: "text"})
	}
	resp := consult(hits)
	assert.Len(t, resp.Citations, answerHits)
	assert.NotContains(t, resp.Answer, "[[d]]")
	// Every hit is still reported as a source.
	assert.Len(t, resp.Sources, 5)
}

func TestExtractCitations(t *testing.T) {
	long := strings.Repeat("é", 250)
	hits := []backend.SearchResult{
		{SourceID: "a", ArticleName: "Civil Code", Content: long},
		{SourceID: "b", ArticleName: "Criminal Law", Content: "short"},
	}

	got := extractCitations("[[b]] then [[missing]] then [[a]] and [[b]] again", hits)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].SourceID)
	assert.Equal(t, "short", got[0].Content)
	assert.Equal(t, "a", got[1].SourceID)
	assert.Equal(t, strings.Repeat("é", 200)+"...", got[1].Content)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 3))
	assert.Equal(t, "ab...", truncateRunes("abc", 2))
	assert.Equal(t, "法律...", truncateRunes("法律条文", 2))
}
