// Package similarity finds related documents by overlap of their derived keywords.
package similarity

import (
	"sort"

	"github.com/gcbaptista/go-content-engine/index"
	"github.com/gcbaptista/go-content-engine/internal/tokenizer"
	"github.com/gcbaptista/go-content-engine/model"
)

// DefaultLimit bounds the result list when the caller passes a non-positive limit.
const DefaultLimit = 5

// Finder ranks candidates by the fraction of the target's keywords they share.
type Finder struct {
	defaultLimit int
}

// NewFinder creates a Finder. defaultLimit <= 0 selects DefaultLimit.
func NewFinder(defaultLimit int) *Finder {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Finder{defaultLimit: defaultLimit}
}

// Overlap returns |A ∩ B| / max(|A|, 1) over folded, de-duplicated keywords.
// The measure is asymmetric: it is normalised by the target's keyword count only.
func Overlap(target, candidate []string) float64 {
	a := foldSet(target)
	b := foldSet(candidate)
	shared := 0
	for kw := range a {
		if _, ok := b[kw]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(a), 1))
}

// FindSimilar returns the documents of snapshot that share at least one keyword with target,
// highest overlap first. The target itself is never returned. Ties keep corpus order.
func (f *Finder) FindSimilar(target *model.Document, snapshot *index.Snapshot, limit int) []model.SimilarHit {
	hits := make([]model.SimilarHit, 0)
	if target == nil || snapshot == nil {
		return hits
	}
	if limit <= 0 {
		limit = f.defaultLimit
	}

	targetSet := foldSet(target.Keywords)
	if len(targetSet) == 0 {
		return hits
	}
	folded := make([]string, 0, len(targetSet))
	for kw := range targetSet {
		folded = append(folded, kw)
	}

	candidates := snapshot.KeywordRows(folded)
	if row, ok := snapshot.Row(target.ID); ok {
		candidates.Remove(row)
	}

	// Bitmap iteration is ascending, which is corpus order
	it := candidates.Iterator()
	for it.HasNext() {
		row := it.Next()
		doc := snapshot.Document(row)
		if doc.ID == target.ID {
			continue
		}
		shared := 0
		for _, kw := range snapshot.RowKeywords(row) {
			if _, ok := targetSet[kw]; ok {
				shared++
			}
		}
		if shared == 0 {
			continue
		}
		hits = append(hits, model.SimilarHit{
			Document:   doc,
			Similarity: float64(shared) / float64(len(targetSet)),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func foldSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		if f := tokenizer.Fold(kw); f != "" {
			set[f] = struct{}{}
		}
	}
	return set
}
