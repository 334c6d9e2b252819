package similarity

import (
	"math"
	"testing"

	"github.com/gcbaptista/go-content-engine/index"
	"github.com/gcbaptista/go-content-engine/internal/tokenizer"
	"github.com/gcbaptista/go-content-engine/model"
)

func buildSnapshot(docs []model.Document) *index.Snapshot {
	snap, _ := index.Build(docs, tokenizer.NewNormalizer(nil, 2))
	return snap
}

func TestOverlap(t *testing.T) {
	got := Overlap([]string{"sol", "praia", "areia"}, []string{"sol", "praia"})
	if math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("Expected 2/3, got %f", got)
	}

	// Asymmetric by construction
	reverse := Overlap([]string{"sol", "praia"}, []string{"sol", "praia", "areia"})
	if reverse != 1 {
		t.Errorf("Expected 1, got %f", reverse)
	}

	if Overlap(nil, []string{"sol"}) != 0 {
		t.Error("Expected 0 for empty target")
	}
	if Overlap([]string{"Praia"}, []string{"praia"}) != 1 {
		t.Error("Expected folded comparison")
	}
}

func TestFindSimilar(t *testing.T) {
	docs := []model.Document{
		{ID: "beach", Keywords: []string{"sol", "praia", "areia"}},
		{ID: "partial", Keywords: []string{"sol", "praia"}},
		{ID: "single", Keywords: []string{"areia", "deserto"}},
		{ID: "unrelated", Keywords: []string{"neve", "montanha"}},
		{ID: "full", Keywords: []string{"SOL", "Praia", "areia", "mar"}},
	}
	snap := buildSnapshot(docs)
	finder := NewFinder(0)

	hits := finder.FindSimilar(&docs[0], snap, 0)
	if len(hits) != 3 {
		t.Fatalf("Expected 3 hits, got %d", len(hits))
	}

	wantIDs := []string{"full", "partial", "single"}
	wantScores := []float64{1, 2.0 / 3.0, 1.0 / 3.0}
	for i, h := range hits {
		if h.Document.ID != wantIDs[i] {
			t.Errorf("Hit %d: expected %s, got %s", i, wantIDs[i], h.Document.ID)
		}
		if math.Abs(h.Similarity-wantScores[i]) > 1e-9 {
			t.Errorf("Hit %d: expected similarity %f, got %f", i, wantScores[i], h.Similarity)
		}
	}
}

func TestFindSimilar_ExcludesTarget(t *testing.T) {
	docs := []model.Document{
		{ID: "a", Keywords: []string{"violão"}},
		{ID: "b", Keywords: []string{"violão"}},
	}
	snap := buildSnapshot(docs)

	for i := range docs {
		for _, h := range NewFinder(5).FindSimilar(&docs[i], snap, 0) {
			if h.Document.ID == docs[i].ID {
				t.Errorf("Document %s returned in its own results", docs[i].ID)
			}
		}
	}
}

func TestFindSimilar_NoKeywords(t *testing.T) {
	docs := []model.Document{
		{ID: "empty"},
		{ID: "other", Keywords: []string{"x"}},
	}
	snap := buildSnapshot(docs)

	if hits := NewFinder(5).FindSimilar(&docs[0], snap, 0); len(hits) != 0 {
		t.Errorf("Expected no hits for a target without keywords, got %v", hits)
	}
}

func TestFindSimilar_TiesAndLimit(t *testing.T) {
	docs := []model.Document{
		{ID: "target", Keywords: []string{"rock"}},
		{ID: "c1", Keywords: []string{"rock"}},
		{ID: "c2", Keywords: []string{"rock", "pop"}},
		{ID: "c3", Keywords: []string{"rock"}},
	}
	snap := buildSnapshot(docs)

	hits := NewFinder(2).FindSimilar(&docs[0], snap, 0)
	if len(hits) != 2 {
		t.Fatalf("Expected default limit 2, got %d", len(hits))
	}
	if hits[0].Document.ID != "c1" || hits[1].Document.ID != "c2" {
		t.Errorf("Expected corpus order on ties, got %s, %s", hits[0].Document.ID, hits[1].Document.ID)
	}

	if hits := NewFinder(2).FindSimilar(&docs[0], snap, 10); len(hits) != 3 {
		t.Errorf("Expected explicit limit to override default, got %d", len(hits))
	}
}

func TestFindSimilar_TargetOutsideSnapshot(t *testing.T) {
	docs := []model.Document{
		{ID: "a", Keywords: []string{"jazz"}},
	}
	snap := buildSnapshot(docs)

	target := &model.Document{ID: "new", Keywords: []string{"jazz", "blues"}}
	hits := NewFinder(5).FindSimilar(target, snap, 0)
	if len(hits) != 1 || hits[0].Similarity != 0.5 {
		t.Errorf("Expected one hit with similarity 0.5, got %v", hits)
	}
}
