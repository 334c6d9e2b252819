// Package index holds the corpus-wide vector model used for free-text similarity search.
//
// A Snapshot is built from scratch over the full document set and is never mutated afterwards.
// Hosts that accept writes build a new Snapshot and swap the reference visible to readers.
// Rebuild and query are both linear in corpus size, which suits interactive request rates.
package index

import (
	"math"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/gcbaptista/go-content-engine/internal/tokenizer"
	"github.com/gcbaptista/go-content-engine/model"
)

// Match is a single free-text search hit.
type Match struct {
	Row        uint32
	DocumentID string
	Similarity float64
}

// BuildStats summarises a rebuild.
type BuildStats struct {
	Documents int           `json:"documents"` // Documents handed to Build
	Indexed   int           `json:"indexed"`   // Documents with at least one vector component
	Excluded  int           `json:"excluded"`  // Documents with no contributing text
	Terms     int           `json:"terms"`     // Vocabulary size
	Skipped   int           `json:"skipped"`   // Malformed documents the host left out before building
	Duration  time.Duration `json:"duration"`
}

// Snapshot is an immutable corpus index: vocabulary, sparse term matrix and the parallel document list.
type Snapshot struct {
	ids        []string
	docs       []model.Document
	rowByID    map[string]uint32
	idf        map[string]float64
	postings   map[string]PostingList
	keywords   map[string]*roaring.Bitmap // folded keyword -> rows
	rowTerms   [][]string                 // folded, de-duplicated keywords per row
	normalizer *tokenizer.Normalizer
	builtAt    time.Time
}

// Build computes a new Snapshot over docs, kept in the given (insertion) order.
// Every document is retained for keyword lookup; only documents with searchable text get a vector row.
func Build(docs []model.Document, normalizer *tokenizer.Normalizer) (*Snapshot, BuildStats) {
	start := time.Now()
	n := len(docs)

	s := &Snapshot{
		ids:        make([]string, n),
		docs:       make([]model.Document, n),
		rowByID:    make(map[string]uint32, n),
		idf:        make(map[string]float64),
		postings:   make(map[string]PostingList),
		keywords:   make(map[string]*roaring.Bitmap),
		rowTerms:   make([][]string, n),
		normalizer: normalizer,
		builtAt:    start,
	}
	stats := BuildStats{Documents: n}

	termCounts := make([]map[string]int, n)
	docFreq := make(map[string]int)
	indexed := 0

	for i, doc := range docs {
		row := uint32(i) // #nosec G115 -- corpus size is bounded well below 2^32
		s.ids[i] = doc.ID
		s.docs[i] = doc
		s.rowByID[doc.ID] = row
		s.rowTerms[i] = s.addKeywords(row, doc.Keywords)

		if !doc.HasSearchableText() {
			stats.Excluded++
			continue
		}

		counts := make(map[string]int)
		for _, tok := range normalizer.Tokenize(doc.SearchableText()) {
			counts[tok]++
		}
		if len(counts) == 0 {
			// Text made only of stopwords or short tokens still counts as indexed, with a zero vector
			indexed++
			continue
		}
		termCounts[i] = counts
		for term := range counts {
			docFreq[term]++
		}
		indexed++
	}

	// sklearn-compatible smoothing: the corpus is treated as if one extra document held every term
	for term, df := range docFreq {
		s.idf[term] = math.Log(float64(1+indexed)/float64(1+df)) + 1
	}

	for i, counts := range termCounts {
		if counts == nil {
			continue
		}
		var sumSquares float64
		for term, c := range counts {
			w := float64(c) * s.idf[term]
			sumSquares += w * w
		}
		norm := math.Sqrt(sumSquares)
		if norm == 0 {
			continue
		}

		// Deterministic posting order regardless of map iteration
		terms := make([]string, 0, len(counts))
		for term := range counts {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		for _, term := range terms {
			s.postings[term] = append(s.postings[term], PostingEntry{
				Row:    uint32(i), // #nosec G115
				Weight: float64(counts[term]) * s.idf[term] / norm,
			})
		}
	}

	stats.Indexed = indexed
	stats.Terms = len(s.idf)
	stats.Duration = time.Since(start)
	return s, stats
}

func (s *Snapshot) addKeywords(row uint32, keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	terms := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		folded := tokenizer.Fold(kw)
		if folded == "" {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		terms = append(terms, folded)

		bm, ok := s.keywords[folded]
		if !ok {
			bm = roaring.New()
			s.keywords[folded] = bm
		}
		bm.Add(row)
	}
	return terms
}

// Search ranks indexed documents by cosine similarity to query.
// Out-of-vocabulary query terms are ignored and zero-similarity documents are never returned.
// Ties keep corpus order. limit <= 0 returns every match.
func (s *Snapshot) Search(query string, limit int) []Match {
	matches := make([]Match, 0)
	if s == nil || len(s.postings) == 0 {
		return matches
	}

	counts := make(map[string]int)
	for _, tok := range s.normalizer.Tokenize(query) {
		if _, ok := s.idf[tok]; ok {
			counts[tok]++
		}
	}
	if len(counts) == 0 {
		return matches
	}

	queryWeights := make(map[string]float64, len(counts))
	var sumSquares float64
	for term, c := range counts {
		w := float64(c) * s.idf[term]
		queryWeights[term] = w
		sumSquares += w * w
	}
	norm := math.Sqrt(sumSquares)

	scores := make([]float64, len(s.docs))
	terms := make([]string, 0, len(queryWeights))
	for term := range queryWeights {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for _, term := range terms {
		qw := queryWeights[term] / norm
		for _, p := range s.postings[term] {
			scores[p.Row] += qw * p.Weight
		}
	}

	for row, score := range scores {
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{
			Row:        uint32(row), // #nosec G115
			DocumentID: s.ids[row],
			Similarity: score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Len returns the number of documents held by the snapshot, indexed or not.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.docs)
}

// Document returns the document stored at row.
func (s *Snapshot) Document(row uint32) model.Document {
	return s.docs[row]
}

// Documents returns the snapshot's documents in corpus order. Callers must not modify the slice.
func (s *Snapshot) Documents() []model.Document {
	if s == nil {
		return nil
	}
	return s.docs
}

// Row returns the row of a document id.
func (s *Snapshot) Row(id string) (uint32, bool) {
	if s == nil {
		return 0, false
	}
	row, ok := s.rowByID[id]
	return row, ok
}

// RowKeywords returns the folded, de-duplicated keywords of a row.
func (s *Snapshot) RowKeywords(row uint32) []string {
	return s.rowTerms[row]
}

// KeywordRows returns the union of rows carrying any of the given folded keywords.
// The returned bitmap is a fresh copy and can be modified.
func (s *Snapshot) KeywordRows(folded []string) *roaring.Bitmap {
	rows := roaring.New()
	for _, kw := range folded {
		if bm, ok := s.keywords[kw]; ok {
			rows.Or(bm)
		}
	}
	return rows
}

// Vocabulary returns the number of distinct terms in the vector model.
func (s *Snapshot) Vocabulary() int {
	return len(s.idf)
}

// BuiltAt returns the time the snapshot was built.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}
