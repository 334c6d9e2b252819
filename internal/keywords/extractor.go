// Package keywords derives a bounded, ranked list of salient terms from a single document's text.
package keywords

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-content-engine/internal/tokenizer"
)

// DefaultMaxKeywords bounds the keyword list when the caller passes a non-positive limit.
const DefaultMaxKeywords = 20

// Keyword is a folded term with its weight inside one document.
type Keyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

// Extractor ranks the terms of a single text by their L2-normalised frequency.
// With one document every term has the same inverse document frequency, so the
// ranking reduces to raw term frequency.
type Extractor struct {
	normalizer    *tokenizer.Normalizer
	minTextLength int
	maxKeywords   int
}

// NewExtractor creates an Extractor. Texts whose trimmed length is below minTextLength runes yield no keywords.
func NewExtractor(normalizer *tokenizer.Normalizer, minTextLength, maxKeywords int) *Extractor {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}
	return &Extractor{
		normalizer:    normalizer,
		minTextLength: minTextLength,
		maxKeywords:   maxKeywords,
	}
}

// Extract returns up to maxKeywords folded terms, highest weight first.
// Equal weights keep the order of first occurrence in the text. maxKeywords <= 0 uses the extractor default.
func (e *Extractor) Extract(text string, maxKeywords int) []string {
	scored := e.Score(text, maxKeywords)
	terms := make([]string, len(scored))
	for i, k := range scored {
		terms[i] = k.Term
	}
	return terms
}

// Score is Extract with the term weights attached.
func (e *Extractor) Score(text string, maxKeywords int) []Keyword {
	if maxKeywords <= 0 {
		maxKeywords = e.maxKeywords
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < e.minTextLength {
		return []Keyword{}
	}

	tokens := e.normalizer.Tokenize(text)
	if len(tokens) == 0 {
		return []Keyword{}
	}

	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	var sumSquares float64
	for _, c := range counts {
		sumSquares += float64(c) * float64(c)
	}
	norm := math.Sqrt(sumSquares)

	result := make([]Keyword, len(order))
	for i, term := range order {
		result[i] = Keyword{Term: term, Score: float64(counts[term]) / norm, Count: counts[term]}
	}

	// order is first-occurrence order, so a stable sort keeps it for ties
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	if len(result) > maxKeywords {
		result = result[:maxKeywords]
	}
	return result
}
