// Package tokenizer turns free text into comparable terms.
// Every text entering the engine (documents, queries, trigger terms, derived keywords)
// goes through the same folding so that comparisons are accent- and case-consistent.
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalizer folds text and splits it into tokens.
// A Normalizer is immutable after construction and safe for concurrent use.
type Normalizer struct {
	stopwords      map[string]struct{}
	minTokenLength int
}

// NewNormalizer creates a Normalizer that drops the given stopwords and any token shorter than minTokenLength runes.
func NewNormalizer(stopwords []string, minTokenLength int) *Normalizer {
	if minTokenLength < 1 {
		minTokenLength = 1
	}
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		if f := Fold(strings.TrimSpace(w)); f != "" {
			set[f] = struct{}{}
		}
	}
	return &Normalizer{stopwords: set, minTokenLength: minTokenLength}
}

// Fold applies Unicode NFC composition followed by full case folding.
// Accents are preserved: "Educação" folds to "educação".
func Fold(text string) string {
	if text == "" {
		return ""
	}
	// Casers keep internal state; one per call keeps Fold safe for concurrent use
	folded := cases.Fold().String(norm.NFC.String(text))
	return norm.NFC.String(folded)
}

// IsWordRune reports whether r belongs to a token. Letters, digits, combining marks and "_" do.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// Split folds text and returns every maximal run of word runes, in order, without filtering.
func Split(text string) []string {
	folded := Fold(text)
	tokens := make([]string, 0) // Initialize as empty slice, not nil
	start := -1
	for i, r := range folded {
		if IsWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, folded[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, folded[start:])
	}
	return tokens
}

// Tokenize folds text and returns its tokens in order of appearance, duplicates kept.
// Tokens shorter than the minimum length and stopwords are dropped.
func (n *Normalizer) Tokenize(text string) []string {
	raw := Split(text)
	tokens := raw[:0]
	for _, tok := range raw {
		if utf8.RuneCountInString(tok) < n.minTokenLength {
			continue
		}
		if n.IsStopword(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// IsStopword reports whether an already folded token is a stopword.
func (n *Normalizer) IsStopword(token string) bool {
	_, ok := n.stopwords[token]
	return ok
}

// Contains reports whether folded(needle) occurs in folded(haystack). An empty needle never matches.
func Contains(haystack, needle string) bool {
	f := Fold(needle)
	if f == "" {
		return false
	}
	return strings.Contains(Fold(haystack), f)
}
