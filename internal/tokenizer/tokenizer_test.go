package tokenizer

import (
	"reflect"
	"sync"
	"testing"
)

var portugueseStopwords = []string{"de", "da", "do", "para", "com", "em", "no", "na", "um", "uma", "o", "a", "e", "que"}

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"lowercase passthrough", "aula", "aula"},
		{"uppercase with accent", "EDUCAÇÃO", "educação"},
		{"mixed case", "Matemática", "matemática"},
		{"decomposed accent composes", "educação", "educação"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.input); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	n := NewNormalizer(portugueseStopwords, 2)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple sentence", "Aula de matemática", []string{"aula", "matemática"}},
		{"with punctuation", "aula, matemática!", []string{"aula", "matemática"}},
		{"with numbers", "python3 curso 2024", []string{"python3", "curso", "2024"}},
		{"single rune tokens dropped", "a b c aula x", []string{"aula"}},
		{"stopwords dropped case-insensitively", "Para O Aluno", []string{"aluno"}},
		{"underscore is a word rune", "minha_variavel teste", []string{"minha_variavel", "teste"}},
		{"hyphen splits", "bem-vindo", []string{"bem", "vindo"}},
		{"duplicates kept in order", "aula aula prova aula", []string{"aula", "aula", "prova", "aula"}},
		{"only symbols", "!@#$%^", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize_MinLength(t *testing.T) {
	n := NewNormalizer(nil, 4)
	got := n.Tokenize("sol lua estrela mar")
	want := []string{"estrela"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenize_SameCanonicalForm(t *testing.T) {
	n := NewNormalizer(nil, 2)
	a := n.Tokenize("EDUCAÇÃO")
	b := n.Tokenize("educação")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected identical tokens, got %v and %v", a, b)
	}
}

func TestContains(t *testing.T) {
	if !Contains("Aula de Educação física", "educação") {
		t.Error("Expected folded substring match")
	}
	if Contains("Aula de matemática", "") {
		t.Error("Empty needle should never match")
	}
	if Contains("culinária", "música") {
		t.Error("Unexpected match")
	}
}

func TestTokenize_Concurrent(t *testing.T) {
	n := NewNormalizer(portugueseStopwords, 2)
	want := n.Tokenize("Aula de Educação Física com o professor")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := n.Tokenize("Aula de Educação Física com o professor"); !reflect.DeepEqual(got, want) {
				t.Errorf("Concurrent Tokenize() = %v, want %v", got, want)
			}
		}()
	}
	wg.Wait()
}
