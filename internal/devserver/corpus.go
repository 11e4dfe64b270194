// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"encoding/json"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/jeranaias/lexchat/internal/backend"
)

// =============================================================================
// DOCUMENTS
// =============================================================================

// Document is one retrievable passage.
type Document struct {
	SourceID    string
	ArticleName string
	Section     string
	Content     string
	DocType     string // "statute" or "case"
	URL         string
	Metadata    map[string]string
}

// DefaultCorpus returns the built-in sample passages.
func DefaultCorpus() []Document {
	return []Document{
		{
			SourceID:    "criminal-232",
			ArticleName: "Criminal Law",
			Section:     "Article 232",
			Content:     "Whoever intentionally commits homicide shall be sentenced to death, life imprisonment or fixed-term imprisonment of not less than ten years; if the circumstances are relatively minor, the sentence is fixed-term imprisonment of not less than three years but not more than ten years.",
			DocType:     "statute",
			URL:         "https://example.com/criminal#232",
			Metadata:    map[string]string{"chapter": "Crimes of Infringing upon Personal Rights", "effective_date": "2021-03-01"},
		},
		{
			SourceID:    "criminal-234",
			ArticleName: "Criminal Law",
			Section:     "Article 234",
			Content:     "Whoever intentionally inflicts injury upon another person shall be sentenced to fixed-term imprisonment of not more than three years, criminal detention or public surveillance. Whoever causes serious injury commits the crime with a sentence of three to ten years; causing death or severe disability by especially cruel means is punished with not less than ten years, life imprisonment or death.",
			DocType:     "statute",
			URL:         "https://example.com/criminal#234",
			Metadata:    map[string]string{"chapter": "Crimes of Infringing upon Personal Rights", "effective_date": "2021-03-01"},
		},
		{
			SourceID:    "criminal-20",
			ArticleName: "Criminal Law",
			Section:     "Article 20",
			Content:     "An act of self-defense undertaken to stop an ongoing unlawful infringement upon the state, the public interest, or the person, property or other rights of oneself or others, which causes harm to the unlawful infringer, is justifiable defense and bears no criminal responsibility. Defense that obviously exceeds the necessary limit and causes serious damage bears criminal responsibility, but the punishment shall be mitigated or exempted.",
			DocType:     "statute",
			URL:         "https://example.com/criminal#20",
			Metadata:    map[string]string{"chapter": "Crimes", "effective_date": "2021-03-01"},
		},
		{
			SourceID:    "civil-8",
			ArticleName: "Civil Code",
			Section:     "Article 8",
			Content:     "Persons of civil law engaging in civil activities shall not violate the law, public order or good morals.",
			DocType:     "statute",
			URL:         "https://example.com/civil#8",
			Metadata:    map[string]string{"chapter": "Basic Provisions", "effective_date": "2021-01-01"},
		},
		{
			SourceID:    "civil-122",
			ArticleName: "Civil Code",
			Section:     "Article 122",
			Content:     "Where a person obtains an undue benefit without a legal basis, the person who suffers a loss is entitled to request the return of the undue benefit.",
			DocType:     "statute",
			URL:         "https://example.com/civil#122",
			Metadata:    map[string]string{"chapter": "Contracts", "effective_date": "2021-01-01"},
		},
		{
			SourceID:    "civil-1179",
			ArticleName: "Civil Code",
			Section:     "Article 1179",
			Content:     "Whoever causes personal injury to another shall compensate the reasonable costs of treatment and rehabilitation, such as medical expenses, nursing fees and transportation costs, as well as lost income. Where disability results, compensation for assistive devices and disability is also payable; where death results, funeral expenses and death compensation are also payable.",
			DocType:     "statute",
			URL:         "https://example.com/civil#1179",
			Metadata:    map[string]string{"chapter": "Tort Liability", "effective_date": "2021-01-01"},
		},
		{
			SourceID:    "case-001",
			ArticleName: "Leading Cases",
			Section:     "Case 001",
			Content:     "After a quarrel, the defendant stabbed the victim with a knife, causing serious injury. The court held that the defendant committed the crime of intentional injury and sentenced him to five years of imprisonment, finding both the intent to injure and the act causing serious injury.",
			DocType:     "case",
			URL:         "https://example.com/cases#001",
			Metadata:    map[string]string{"case_type": "criminal", "court": "Intermediate People's Court", "date": "2023-05-15"},
		},
		{
			SourceID:    "case-002",
			ArticleName: "Leading Cases",
			Section:     "Case 002",
			Content:     "Walking home at night, the defendant was robbed at knifepoint and injured the robber while resisting. The court found the conduct to be justifiable self-defense bearing no criminal responsibility, since the unlawful infringement was ongoing and the defense did not obviously exceed the necessary limit.",
			DocType:     "case",
			URL:         "https://example.com/cases#002",
			Metadata:    map[string]string{"case_type": "criminal", "court": "People's Court", "date": "2023-08-20"},
		},
	}
}

// =============================================================================
// SEARCH
// =============================================================================

const (
	// DefaultTopK is the number of hits returned when none is requested.
	DefaultTopK = 5
	// MaxTopK caps the number of hits per search.
	MaxTopK = 50
)

// Corpus is an in-memory keyword index over documents.
type Corpus struct {
	docs []Document
}

// NewCorpus creates a corpus over docs.
func NewCorpus(docs []Document) *Corpus {
	return &Corpus{docs: docs}
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	return len(c.docs)
}

// Search scores every document against the query words and returns the
// best topK hits with a positive score. A word found in the content
// scores 2, in the article name or section 1 each. Ties keep corpus order.
func (c *Corpus) Search(query string, topK int) []backend.SearchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	// A Caser is stateful, so each search gets its own.
	fold := cases.Fold()

	words := queryWords(fold, query)
	if len(words) == 0 {
		return nil
	}

	var hits []backend.SearchResult
	for _, doc := range c.docs {
		content := fold.String(doc.Content)
		article := fold.String(doc.ArticleName)
		section := fold.String(doc.Section)

		score := 0
		for _, w := range words {
			if strings.Contains(content, w) {
				score += 2
			}
			if strings.Contains(article, w) {
				score++
			}
			if strings.Contains(section, w) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, doc.result(float64(score)/10))
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// queryWords case-folds the query and splits it into unique words with
// surrounding punctuation removed.
func queryWords(fold cases.Caser, query string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, f := range strings.Fields(fold.String(query)) {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

func (d Document) result(score float64) backend.SearchResult {
	var meta map[string]json.RawMessage
	if len(d.Metadata) > 0 {
		meta = make(map[string]json.RawMessage, len(d.Metadata))
		for k, v := range d.Metadata {
			raw, _ := json.Marshal(v)
			meta[k] = raw
		}
	}
	return backend.SearchResult{
		SourceID:    d.SourceID,
		ArticleName: d.ArticleName,
		Section:     d.Section,
		Content:     d.Content,
		DocType:     d.DocType,
		URL:         d.URL,
		Score:       score,
		Metadata:    meta,
	}
}
