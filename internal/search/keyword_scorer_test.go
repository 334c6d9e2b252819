package search

import (
	"reflect"
	"testing"

	"github.com/gcbaptista/go-content-engine/model"
)

func TestKeywordScorer_ContextOnlyMatch(t *testing.T) {
	ks := NewKeywordScorer()
	doc := &model.Document{
		ID:          "ctx",
		PrimaryText: "um vídeo sobre a escola",
		ContextText: "conteúdo de educação infantil",
	}

	score, matched := ks.Score(doc, []string{"sexo", "educação"}, false)
	if score != 1 {
		t.Errorf("Expected score 1, got %d", score)
	}
	if !reflect.DeepEqual(matched, []string{"educação"}) {
		t.Errorf("Expected matched [educação], got %v", matched)
	}
}

func TestKeywordScorer_FieldWeights(t *testing.T) {
	ks := NewKeywordScorer()
	doc := &model.Document{
		PrimaryText: "Futebol, futebol e mais futebol",
		ContextText: "jogo de futebol",
		Keywords:    []string{"futebolista", "gol"},
	}

	tests := []struct {
		name     string
		keywords []string
		exact    bool
		want     int
	}{
		{"substring counts occurrences", []string{"futebol"}, false, 3 + 1 + 1},
		{"exact mode bounded bonus", []string{"futebol"}, true, 2 + 1 + 1},
		{"exact mode rejects partial word", []string{"fute"}, true, 0 + 1 + 1},
		{"derived keyword substring", []string{"gol"}, false, 0 + 0 + 1},
		{"no match", []string{"basquete"}, false, 0},
		{"case and accent insensitive", []string{"FUTEBOL"}, false, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ks.Score(doc, tt.keywords, tt.exact)
			if got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeywordScorer_ExactBoundaries(t *testing.T) {
	tests := []struct {
		text   string
		needle string
		want   bool
	}{
		{"aula de música", "música", true},
		{"músicas novas", "música", false},
		{"(aula)", "aula", true},
		{"salaula aula", "aula", true},
		{"salaula", "aula", false},
		{"aula2", "aula", false},
		{"foo_bar", "foo", false},
		{"bar_foo", "foo", false},
		{"foo-bar", "foo", true},
		{"musica\u0301 nova", "musica", false},
		{"", "aula", false},
	}
	for _, tt := range tests {
		if got := containsBounded(tt.text, tt.needle); got != tt.want {
			t.Errorf("containsBounded(%q, %q) = %v, want %v", tt.text, tt.needle, got, tt.want)
		}
	}
}

func TestKeywordScorer_ExactModeUnderscoreJoinsWords(t *testing.T) {
	ks := NewKeywordScorer()

	joined := &model.Document{PrimaryText: "tutorial foo_bar completo"}
	if score, matched := ks.Score(joined, []string{"foo"}, true); score != 0 || len(matched) != 0 {
		t.Errorf("Expected no exact match inside foo_bar, got score %d matched %v", score, matched)
	}

	separate := &model.Document{PrimaryText: "tutorial foo bar completo"}
	if score, _ := ks.Score(separate, []string{"foo"}, true); score == 0 {
		t.Error("Expected an exact match for a standalone word")
	}
}

func TestKeywordScorer_EmptyKeywordsIgnored(t *testing.T) {
	ks := NewKeywordScorer()
	doc := &model.Document{PrimaryText: "qualquer texto"}

	score, matched := ks.Score(doc, []string{"", "   "}, false)
	if score != 0 || len(matched) != 0 {
		t.Errorf("Expected no score for empty keywords, got %d %v", score, matched)
	}
}

func TestKeywordScorer_MatchedDeduplicated(t *testing.T) {
	ks := NewKeywordScorer()
	doc := &model.Document{PrimaryText: "receita de bolo e receita de torta"}

	score, matched := ks.Score(doc, []string{"bolo", "receita", "Receita", "torta"}, false)
	if score != 1+2+1 {
		t.Errorf("Expected score 4, got %d", score)
	}
	want := []string{"bolo", "receita", "torta"}
	if !reflect.DeepEqual(matched, want) {
		t.Errorf("Expected matched %v, got %v", want, matched)
	}
}

func TestKeywordScorer_Rank(t *testing.T) {
	ks := NewKeywordScorer()
	docs := []model.Document{
		{ID: "none", PrimaryText: "nada aqui"},
		{ID: "once", PrimaryText: "uma aula"},
		{ID: "bad", PrimaryText: "aula aula aula", Signals: &model.AuxiliarySignals{AvgBrightness: -5}},
		{ID: "twice", PrimaryText: "aula e outra aula"},
		{ID: "once-b", ContextText: "aula"},
	}

	hits, skipped := ks.Rank(docs, []string{"aula"}, false)

	var ids []string
	for _, h := range hits {
		ids = append(ids, h.Document.ID)
	}
	want := []string{"twice", "once", "once-b"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected order %v, got %v", want, ids)
	}
	if len(skipped) != 1 || skipped[0].DocumentID != "bad" {
		t.Errorf("Expected the malformed document to be skipped, got %v", skipped)
	}
}

func TestKeywordScorer_AddingMatchNeverLowersScore(t *testing.T) {
	ks := NewKeywordScorer()
	doc := &model.Document{PrimaryText: "aula de matemática"}

	before, _ := ks.Score(doc, []string{"aula"}, false)
	doc.ContextText = "aula prática"
	after, _ := ks.Score(doc, []string{"aula"}, false)
	doc.Keywords = []string{"aulas"}
	withKeywords, _ := ks.Score(doc, []string{"aula"}, false)

	if !(before <= after && after <= withKeywords) {
		t.Errorf("Expected monotonic scores, got %d, %d, %d", before, after, withKeywords)
	}
}
