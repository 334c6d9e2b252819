package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-content-engine/internal/tokenizer"
	"github.com/gcbaptista/go-content-engine/model"
)

// Field weights for keyword scoring.
const (
	exactMatchWeight   = 2 // Primary text, delimiter-bounded match in exact mode
	contextMatchWeight = 1 // Context text, once per keyword
	derivedMatchWeight = 1 // Derived keywords, once per keyword
)

// queryKeyword is a caller keyword with its folded comparison form.
type queryKeyword struct {
	input  string
	folded string
}

// KeywordScorer ranks documents against an explicit keyword list using field-weighted
// substring matching. It is stateless and safe for concurrent use.
type KeywordScorer struct{}

// NewKeywordScorer creates a KeywordScorer.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

// prepareKeywords trims, folds and de-duplicates the caller's keywords, keeping first spellings.
func prepareKeywords(keywords []string) []queryKeyword {
	prepared := make([]queryKeyword, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		trimmed := strings.TrimSpace(kw)
		folded := tokenizer.Fold(trimmed)
		if folded == "" {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		prepared = append(prepared, queryKeyword{input: trimmed, folded: folded})
	}
	return prepared
}

// Score computes one document's relevance to the keywords and the keywords that matched it.
// Keywords are compared case- and accent-consistently; empty keywords are ignored.
func (ks *KeywordScorer) Score(doc *model.Document, keywords []string, exact bool) (int, []string) {
	return ks.score(doc, prepareKeywords(keywords), exact)
}

func (ks *KeywordScorer) score(doc *model.Document, keywords []queryKeyword, exact bool) (int, []string) {
	matched := make([]string, 0)
	if len(keywords) == 0 {
		return 0, matched
	}

	primary := tokenizer.Fold(doc.PrimaryText)
	contextText := tokenizer.Fold(doc.ContextText)
	derived := make([]string, 0, len(doc.Keywords))
	for _, kw := range doc.Keywords {
		if f := tokenizer.Fold(kw); f != "" {
			derived = append(derived, f)
		}
	}

	total := 0
	for _, kw := range keywords {
		contribution := 0

		if exact {
			if containsBounded(primary, kw.folded) {
				contribution += exactMatchWeight
			}
		} else {
			contribution += strings.Count(primary, kw.folded)
		}

		if strings.Contains(contextText, kw.folded) {
			contribution += contextMatchWeight
		}

		for _, d := range derived {
			if strings.Contains(d, kw.folded) {
				contribution += derivedMatchWeight
				break
			}
		}

		if contribution > 0 {
			total += contribution
			matched = append(matched, kw.input)
		}
	}

	return total, matched
}

// Rank scores every document and returns those with a positive score, highest first.
// Ties keep the order of docs. Documents that fail validation are returned as skipped.
func (ks *KeywordScorer) Rank(docs []model.Document, keywords []string, exact bool) ([]model.KeywordHit, []model.SkippedDocument) {
	hits := make([]model.KeywordHit, 0)
	var skipped []model.SkippedDocument

	prepared := prepareKeywords(keywords)
	if len(prepared) == 0 {
		return hits, skipped
	}

	for i := range docs {
		doc := &docs[i]
		if err := doc.Validate(); err != nil {
			skipped = append(skipped, model.SkippedDocument{DocumentID: doc.ID, Reason: err.Error()})
			continue
		}
		score, matched := ks.score(doc, prepared, exact)
		if score == 0 {
			continue
		}
		hits = append(hits, model.KeywordHit{
			Document:        *doc,
			Score:           score,
			MatchedKeywords: matched,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits, skipped
}

// containsBounded reports whether needle occurs in text with no word rune (as defined by
// tokenizer.IsWordRune) directly before or after it.
func containsBounded(text, needle string) bool {
	if needle == "" {
		return false
	}
	offset := 0
	for {
		idx := strings.Index(text[offset:], needle)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(needle)
		if isBoundary(text, start, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if tokenizer.IsWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if tokenizer.IsWordRune(r) {
			return false
		}
	}
	return true
}
