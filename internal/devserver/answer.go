// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jeranaias/lexchat/internal/backend"
	"github.com/jeranaias/lexchat/internal/citation"
	"github.com/jeranaias/lexchat/internal/model"
)

// NoResultsAnswer is returned when retrieval finds nothing.
const NoResultsAnswer = "Sorry, no relevant information was found in the knowledge base, so the question cannot be answered. " +
	"Check that the corpus is loaded and that the question relates to its content."

const (
	// answerHits is how many hits the composed answer cites.
	answerHits = 3
	// citationContentRunes caps the excerpt carried by each citation.
	citationContentRunes = 200
	disclaimer           = "This is general information, not legal advice."
)

// consult builds the answer to question from the retrieved hits. Each cited
// hit is referenced inline with a [[source_id]] marker.
func consult(hits []backend.SearchResult) backend.ChatResponse {
	if len(hits) == 0 {
		return backend.ChatResponse{
			Answer:    NoResultsAnswer,
			Citations: []model.Citation{},
			Sources:   []model.Source{},
		}
	}

	var sb strings.Builder
	sb.WriteString("Based on the retrieved material:\n\n")
	for i, hit := range hits {
		if i == answerHits {
			break
		}
		fmt.Fprintf(&sb, "%d. %s: %s [[%s]]\n",
			i+1, strings.TrimSpace(hit.ArticleName+" "+hit.Section), firstSentence(hit.Content), hit.SourceID)
	}
	sb.WriteString("\n" + disclaimer)
	answer := sb.String()

	return backend.ChatResponse{
		Answer:    answer,
		Citations: extractCitations(answer, hits),
		Sources:   rawSources(hits),
	}
}

// extractCitations returns one citation per distinct marker in answer that
// names a retrieved hit, in order of first appearance.
func extractCitations(answer string, hits []backend.SearchResult) []model.Citation {
	byID := make(map[string]backend.SearchResult, len(hits))
	for _, h := range hits {
		byID[h.SourceID] = h
	}

	citations := []model.Citation{}
	seen := make(map[string]bool)
	for _, id := range citation.Markers(answer) {
		hit, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		c := hit.Citation()
		c.Content = truncateRunes(c.Content, citationContentRunes)
		citations = append(citations, c)
	}
	return citations
}

func rawSources(hits []backend.SearchResult) []model.Source {
	sources := make([]model.Source, 0, len(hits))
	for _, h := range hits {
		raw, err := json.Marshal(h)
		if err != nil {
			continue
		}
		sources = append(sources, raw)
	}
	return sources
}

// truncateRunes cuts s to n runes followed by "..." when it is longer.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}
