// Package search provides an in-memory TF-IDF index over scraped deals for
// natural-language queries.
package search

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/jrosariodev/dealscout/internal/models"
)

const (
	// Candidates scoring below this are noise, not matches.
	minScore     = 0.1
	DefaultLimit = 50
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "the": true, "to": true,
	"with": true,
}

// Engine indexes deals by their search text. Index replaces the whole corpus;
// Search and Suggestions are safe to call concurrently with it.
type Engine struct {
	mu      sync.RWMutex
	deals   []*models.Deal
	vectors []map[string]float64
	idf     map[string]float64
}

func NewEngine() *Engine {
	return &Engine{idf: make(map[string]float64)}
}

// Index rebuilds the TF-IDF vectors from scratch for the given deals.
func (e *Engine) Index(deals []*models.Deal) {
	docs := make([][]string, len(deals))
	df := make(map[string]int)
	for i, deal := range deals {
		terms := tokenize(deal.SearchText())
		docs[i] = terms

		seen := make(map[string]bool, len(terms))
		for _, term := range terms {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	idf := make(map[string]float64, len(df))
	n := float64(len(deals))
	for term, count := range df {
		idf[term] = math.Log(n/float64(1+count)) + 1
	}

	vectors := make([]map[string]float64, len(deals))
	for i, terms := range docs {
		vectors[i] = vectorize(terms, idf)
	}

	e.mu.Lock()
	e.deals = deals
	e.vectors = vectors
	e.idf = idf
	e.mu.Unlock()
}

// Search ranks indexed deals against the query by cosine similarity and
// applies the optional filters to the survivors.
func (e *Engine) Search(query string, filters *models.Filters, limit int) []*models.Deal {
	if limit <= 0 {
		limit = DefaultLimit
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.deals) == 0 {
		return nil
	}

	queryVec := vectorize(tokenize(strings.ToLower(query)), e.idf)
	if len(queryVec) == 0 {
		return nil
	}

	type match struct {
		score float64
		deal  *models.Deal
	}

	var matches []match
	for i, deal := range e.deals {
		score := cosine(queryVec, e.vectors[i])
		if score <= minScore {
			continue
		}
		if filters != nil && !deal.Matches(*filters) {
			continue
		}
		matches = append(matches, match{score: score, deal: deal})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]*models.Deal, len(matches))
	for i, m := range matches {
		results[i] = m.deal
	}
	return results
}

// Suggestions extracts frequent phrases containing the partial query from
// indexed deals. Partial queries under two characters are too ambiguous.
func (e *Engine) Suggestions(partial string) []string {
	if len(partial) < 2 {
		return nil
	}
	partial = strings.ToLower(partial)

	e.mu.RLock()
	defer e.mu.RUnlock()

	counts := make(map[string]int)
	for _, deal := range e.deals {
		text := deal.SearchText()
		if !strings.Contains(text, partial) {
			continue
		}
		words := strings.Fields(text)
		for i := range words {
			for j := i + 1; j <= len(words) && j <= i+3; j++ {
				phrase := strings.Join(words[i:j], " ")
				if strings.Contains(phrase, partial) {
					counts[phrase]++
				}
			}
		}
	}

	phrases := make([]string, 0, len(counts))
	for phrase := range counts {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return phrases[i] < phrases[j]
	})

	if len(phrases) > 10 {
		phrases = phrases[:10]
	}
	return phrases
}

// tokenize splits lowercased text into unigrams and bigrams, skipping
// stopwords.
func tokenize(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	kept := words[:0]
	for _, w := range words {
		if !stopwords[w] {
			kept = append(kept, w)
		}
	}

	terms := make([]string, 0, len(kept)*2)
	terms = append(terms, kept...)
	for i := 0; i+1 < len(kept); i++ {
		terms = append(terms, kept[i]+" "+kept[i+1])
	}
	return terms
}

func vectorize(terms []string, idf map[string]float64) map[string]float64 {
	if len(terms) == 0 {
		return nil
	}

	tf := make(map[string]float64)
	for _, term := range terms {
		tf[term]++
	}

	vec := make(map[string]float64, len(tf))
	for term, count := range tf {
		weight, ok := idf[term]
		if !ok {
			continue
		}
		vec[term] = (count / float64(len(terms))) * weight
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for term, w := range a {
		normA += w * w
		if bw, ok := b[term]; ok {
			dot += w * bw
		}
	}
	for _, w := range b {
		normB += w * w
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
