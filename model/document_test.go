package model

import (
	"reflect"
	"testing"
)

func TestDocument_NormalizeKeywords(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		expected []string
	}{
		{
			name:     "trims and drops empty entries",
			keywords: []string{" aula ", "", "  ", "prova"},
			expected: []string{"aula", "prova"},
		},
		{
			name:     "simple case difference",
			keywords: []string{"Futebol", "futebol", "FUTEBOL"},
			expected: []string{"Futebol"},
		},
		{
			name:     "composed and decomposed accents",
			keywords: []string{"educação", "educação"},
			expected: []string{"educação"},
		},
		{
			name:     "final sigma",
			keywords: []string{"ΟΔΟΣ", "οδος"},
			expected: []string{"ΟΔΟΣ"},
		},
		{
			name:     "sharp s folds to ss",
			keywords: []string{"STRASSE", "straße"},
			expected: []string{"STRASSE"},
		},
		{
			name:     "first occurrence keeps relevance order",
			keywords: []string{"praia", "sol", "Praia", "areia"},
			expected: []string{"praia", "sol", "areia"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{Keywords: tt.keywords}
			doc.NormalizeKeywords()
			if !reflect.DeepEqual(doc.Keywords, tt.expected) {
				t.Errorf("NormalizeKeywords(%q) = %q, want %q", tt.keywords, doc.Keywords, tt.expected)
			}
		})
	}
}

func TestDocument_NormalizeKeywords_Mixed(t *testing.T) {
	doc := Document{Keywords: []string{"STRASSE", "straße", "ΟΔΟΣ", "οδος", "educação", "educação"}}
	doc.NormalizeKeywords()
	if len(doc.Keywords) != 3 {
		t.Errorf("Expected 3 unique keywords, got %d: %q", len(doc.Keywords), doc.Keywords)
	}
}

func TestDocument_ClearDerived(t *testing.T) {
	doc := Document{
		Keywords:        []string{"aula"},
		KeywordsDerived: true,
		ContextText:     "contexto do produtor",
	}
	doc.ClearDerived()

	if doc.Keywords != nil || doc.KeywordsDerived {
		t.Errorf("Expected derived keywords to be dropped, got %q (derived=%v)", doc.Keywords, doc.KeywordsDerived)
	}
	if doc.ContextText != "contexto do produtor" {
		t.Errorf("Expected supplied context to be kept, got %q", doc.ContextText)
	}

	doc = Document{ContextText: "Transcrição: aula", ContextDerived: true, Keywords: []string{"bolo"}}
	doc.ClearDerived()
	if doc.ContextText != "" || doc.ContextDerived {
		t.Errorf("Expected derived context to be dropped, got %q", doc.ContextText)
	}
	if !reflect.DeepEqual(doc.Keywords, []string{"bolo"}) {
		t.Errorf("Expected supplied keywords to be kept, got %q", doc.Keywords)
	}
}
