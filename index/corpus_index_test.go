package index

import (
	"math"
	"reflect"
	"testing"

	"github.com/gcbaptista/go-content-engine/internal/tokenizer"
	"github.com/gcbaptista/go-content-engine/model"
)

func testNormalizer() *tokenizer.Normalizer {
	return tokenizer.NewNormalizer([]string{"de", "da", "do", "para", "com", "em", "no", "na", "um", "uma", "o", "a", "e", "que"}, 2)
}

func testCorpus() []model.Document {
	return []model.Document{
		{ID: "math", PrimaryText: "aula de matemática sobre frações", Keywords: []string{"aula", "matemática"}},
		{ID: "cake", PrimaryText: "receita de bolo de chocolate", Keywords: []string{"receita", "bolo"}},
		{ID: "empty", Keywords: nil},
		{ID: "goal", PrimaryText: "gol de futebol no campeonato", ContextText: "partida de futebol", Keywords: []string{"futebol"}},
		{ID: "math2", PrimaryText: "exercícios de matemática", Keywords: []string{"Matemática", "exercícios"}},
	}
}

func TestBuild_Stats(t *testing.T) {
	_, stats := Build(testCorpus(), testNormalizer())

	if stats.Documents != 5 {
		t.Errorf("Expected 5 documents, got %d", stats.Documents)
	}
	if stats.Excluded != 1 {
		t.Errorf("Expected 1 excluded document, got %d", stats.Excluded)
	}
	if stats.Indexed != 4 {
		t.Errorf("Expected 4 indexed documents, got %d", stats.Indexed)
	}
	if stats.Terms == 0 {
		t.Error("Expected a non-empty vocabulary")
	}
}

func TestSearch_EmptyCorpus(t *testing.T) {
	snap, _ := Build(nil, testNormalizer())

	got := snap.Search("qualquer coisa", 10)
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil result, got %v", got)
	}
}

func TestSearch_AllExcluded(t *testing.T) {
	snap, stats := Build([]model.Document{{ID: "a"}, {ID: "b", PrimaryText: "   "}}, testNormalizer())

	if stats.Excluded != 2 {
		t.Errorf("Expected 2 excluded, got %d", stats.Excluded)
	}
	if got := snap.Search("aula", 0); len(got) != 0 {
		t.Errorf("Expected no matches, got %v", got)
	}
}

func TestSearch_SelfRetrievable(t *testing.T) {
	docs := testCorpus()
	snap, _ := Build(docs, testNormalizer())

	for _, doc := range docs {
		if !doc.HasSearchableText() {
			continue
		}
		matches := snap.Search(doc.SearchableText(), 0)
		found := false
		for _, m := range matches {
			if m.DocumentID == doc.ID {
				found = true
				if m.Similarity <= 0 {
					t.Errorf("Expected positive self-similarity for %s", doc.ID)
				}
			}
		}
		if !found {
			t.Errorf("Document %s not found by its own text", doc.ID)
		}
	}
}

func TestSearch_RankingAndExclusion(t *testing.T) {
	snap, _ := Build(testCorpus(), testNormalizer())

	matches := snap.Search("matemática", 0)
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d: %v", len(matches), matches)
	}
	for _, m := range matches {
		if m.DocumentID != "math" && m.DocumentID != "math2" {
			t.Errorf("Unexpected match %s", m.DocumentID)
		}
		if m.Similarity <= 0 || m.Similarity > 1+1e-9 {
			t.Errorf("Similarity out of range: %f", m.Similarity)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Similarity > matches[i-1].Similarity {
			t.Error("Matches not sorted by descending similarity")
		}
	}

	if got := snap.Search("xilofone", 0); len(got) != 0 {
		t.Errorf("Out-of-vocabulary query should return nothing, got %v", got)
	}
}

func TestSearch_Limit(t *testing.T) {
	snap, _ := Build(testCorpus(), testNormalizer())

	if got := snap.Search("matemática futebol bolo", 2); len(got) != 2 {
		t.Errorf("Expected limit 2, got %d", len(got))
	}
	if got := snap.Search("matemática futebol bolo", 0); len(got) != 4 {
		t.Errorf("Expected 4 unlimited matches, got %d", len(got))
	}
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	docs := []model.Document{
		{ID: "first", PrimaryText: "violão"},
		{ID: "second", PrimaryText: "violão"},
		{ID: "third", PrimaryText: "violão"},
	}
	snap, _ := Build(docs, testNormalizer())

	matches := snap.Search("violão", 0)
	var ids []string
	for _, m := range matches {
		ids = append(ids, m.DocumentID)
	}
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected insertion order %v, got %v", want, ids)
	}
	if math.Abs(matches[0].Similarity-1) > 1e-9 {
		t.Errorf("Expected similarity 1 for identical text, got %f", matches[0].Similarity)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	a, _ := Build(testCorpus(), testNormalizer())
	b, _ := Build(testCorpus(), testNormalizer())

	for _, q := range []string{"matemática", "futebol campeonato", "receita bolo aula"} {
		if !reflect.DeepEqual(a.Search(q, 0), b.Search(q, 0)) {
			t.Errorf("Rankings differ between rebuilds for %q", q)
		}
	}
}

func TestKeywordRows(t *testing.T) {
	snap, _ := Build(testCorpus(), testNormalizer())

	rows := snap.KeywordRows([]string{"matemática"})
	if rows.GetCardinality() != 2 {
		t.Errorf("Expected 2 rows for folded keyword, got %d", rows.GetCardinality())
	}
	if !rows.Contains(0) || !rows.Contains(4) {
		t.Errorf("Expected rows 0 and 4, got %v", rows.ToArray())
	}

	// The returned bitmap must not alias the snapshot postings
	rows.Remove(0)
	if !snap.KeywordRows([]string{"matemática"}).Contains(0) {
		t.Error("Modifying the result changed the snapshot")
	}

	if snap.KeywordRows([]string{"inexistente"}).GetCardinality() != 0 {
		t.Error("Expected empty bitmap for unknown keyword")
	}
}

func TestRowLookup(t *testing.T) {
	snap, _ := Build(testCorpus(), testNormalizer())

	row, ok := snap.Row("math2")
	if !ok || row != 4 {
		t.Fatalf("Expected row 4, got %d (%v)", row, ok)
	}
	if got := snap.RowKeywords(row); !reflect.DeepEqual(got, []string{"matemática", "exercícios"}) {
		t.Errorf("Unexpected folded keywords %v", got)
	}
	if _, ok := snap.Row("missing"); ok {
		t.Error("Expected missing id to be absent")
	}
	if snap.Len() != 5 {
		t.Errorf("Expected Len 5, got %d", snap.Len())
	}
}
