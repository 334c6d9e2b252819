package api

import (
	stderrors "errors"
	"testing"

	"github.com/gcbaptista/go-content-engine/internal/errors"
	"github.com/gcbaptista/go-content-engine/model"
)

func floatPtr(v float64) *float64 { return &v }

func TestValidationResult_AddError(t *testing.T) {
	result := &ValidationResult{Valid: true}

	result.AddError("field1", "error message")

	if result.Valid {
		t.Error("Expected Valid to be false after adding error")
	}

	if len(result.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(result.Errors))
	}

	if result.Errors[0].Field != "field1" {
		t.Errorf("Expected field 'field1', got '%s'", result.Errors[0].Field)
	}

	if result.Errors[0].Message != "error message" {
		t.Errorf("Expected message 'error message', got '%s'", result.Errors[0].Message)
	}
}

func TestValidationResult_HasErrors(t *testing.T) {
	result := &ValidationResult{Valid: true}

	if result.HasErrors() {
		t.Error("Expected HasErrors to be false for empty result")
	}

	result.AddError("field", "message")

	if !result.HasErrors() {
		t.Error("Expected HasErrors to be true after adding error")
	}
}

func TestValidateDocumentID(t *testing.T) {
	tests := []struct {
		name        string
		documentID  string
		expectValid bool
	}{
		{"valid id", "doc-1", true},
		{"empty id", "", false},
		{"leading whitespace", " doc-1", false},
		{"trailing whitespace", "doc-1 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateDocumentID(tt.documentID)
			if result.HasErrors() == tt.expectValid {
				t.Errorf("ValidateDocumentID(%q) valid = %v, want %v (errors: %v)",
					tt.documentID, !result.HasErrors(), tt.expectValid, result.Errors)
			}
		})
	}
}

func TestValidateDocuments(t *testing.T) {
	tests := []struct {
		name           string
		docs           []DocumentPayload
		expectedErrors int
	}{
		{
			name:           "empty batch",
			docs:           nil,
			expectedErrors: 1,
		},
		{
			name:           "documents without ids are accepted",
			docs:           []DocumentPayload{{PrimaryText: "um"}, {PrimaryText: "dois"}},
			expectedErrors: 0,
		},
		{
			name:           "whitespace around id",
			docs:           []DocumentPayload{{ID: " a"}},
			expectedErrors: 1,
		},
		{
			name:           "duplicate ids",
			docs:           []DocumentPayload{{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: "b"}},
			expectedErrors: 2,
		},
		{
			name:           "empty text is left to ingestion",
			docs:           []DocumentPayload{{ID: "a"}},
			expectedErrors: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateDocuments(tt.docs)
			if len(result.Errors) != tt.expectedErrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.expectedErrors, len(result.Errors), result.Errors)
			}
		})
	}
}

func TestValidateKeywords(t *testing.T) {
	if result := ValidateKeywords([]string{"", "futebol"}); result.HasErrors() {
		t.Errorf("Expected keywords with one non-blank entry to be valid, got %v", result.Errors)
	}
	if result := ValidateKeywords([]string{" ", "\t"}); !result.HasErrors() {
		t.Error("Expected blank keywords to be rejected")
	}
	if result := ValidateKeywords(nil); !result.HasErrors() {
		t.Error("Expected missing keywords to be rejected")
	}
}

func TestValidateLimit(t *testing.T) {
	tests := []struct {
		limit       int
		expectValid bool
	}{
		{0, true},
		{10, true},
		{maxResultLimit, true},
		{maxResultLimit + 1, false},
		{-1, false},
	}

	for _, tt := range tests {
		result := ValidateLimit(tt.limit)
		if result.HasErrors() == tt.expectValid {
			t.Errorf("ValidateLimit(%d) valid = %v, want %v", tt.limit, !result.HasErrors(), tt.expectValid)
		}
	}
}

func TestValidateAdvancedQuery(t *testing.T) {
	tests := []struct {
		name           string
		query          model.AdvancedQuery
		expectedErrors int
	}{
		{
			name:  "no filters",
			query: model.AdvancedQuery{Query: "futebol"},
		},
		{
			name:  "duration range",
			query: model.AdvancedQuery{Query: "futebol", MinDuration: floatPtr(10), MaxDuration: floatPtr(60)},
		},
		{
			name:           "negative bounds",
			query:          model.AdvancedQuery{MinDuration: floatPtr(-1), MaxDuration: floatPtr(-2)},
			expectedErrors: 3,
		},
		{
			name:           "inverted range",
			query:          model.AdvancedQuery{MinDuration: floatPtr(60), MaxDuration: floatPtr(10)},
			expectedErrors: 1,
		},
		{
			name:           "limit too large",
			query:          model.AdvancedQuery{Limit: maxResultLimit + 1},
			expectedErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAdvancedQuery(&tt.query)
			if len(result.Errors) != tt.expectedErrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.expectedErrors, len(result.Errors), result.Errors)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		label    string
		expected model.Category
		valid    bool
	}{
		{"esportes", model.CategorySports, true},
		{"Tecnologia", model.CategoryTechnology, true},
		{"culinária", model.CategoryCooking, true},
		{"outros", model.CategoryOther, true},
		{"astronomia", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			category, result := ValidateCategory(tt.label)
			if result.HasErrors() == tt.valid {
				t.Fatalf("ValidateCategory(%q) valid = %v, want %v", tt.label, !result.HasErrors(), tt.valid)
			}
			if tt.valid && category != tt.expected {
				t.Errorf("ValidateCategory(%q) = %q, want %q", tt.label, category, tt.expected)
			}
		})
	}
}

func TestDocumentPayload_ToDocument(t *testing.T) {
	t.Run("well-formed signals", func(t *testing.T) {
		payload := DocumentPayload{
			ID:          "doc-1",
			PrimaryText: "Aula de programação",
			Directory:   "cursos",
			AuxiliarySignals: map[string]any{
				"has_faces":      true,
				"avg_brightness": 120.0,
				"scene_changes":  4.0,
			},
		}

		doc := payload.ToDocument()
		if doc.DecodeErr != nil {
			t.Fatalf("Expected no decode error, got %v", doc.DecodeErr)
		}
		if doc.Signals == nil || !doc.Signals.HasFaces || doc.Signals.SceneChanges != 4 {
			t.Errorf("Signals not converted: %+v", doc.Signals)
		}
		if doc.Category != model.CategoryOther {
			t.Errorf("Expected placeholder category %q, got %q", model.CategoryOther, doc.Category)
		}
		if doc.Directory != "cursos" {
			t.Errorf("Expected directory 'cursos', got %q", doc.Directory)
		}
	})

	t.Run("malformed signals mark the document", func(t *testing.T) {
		payload := DocumentPayload{
			ID:               "doc-2",
			PrimaryText:      "Vídeo",
			AuxiliarySignals: map[string]any{"avg_brightness": "dark"},
		}

		doc := payload.ToDocument()
		if doc.DecodeErr == nil {
			t.Fatal("Expected a decode error for malformed signals")
		}
		if !stderrors.Is(doc.DecodeErr, errors.ErrMalformedDocument) {
			t.Errorf("Expected ErrMalformedDocument, got %v", doc.DecodeErr)
		}
		if err := doc.Validate(); !stderrors.Is(err, errors.ErrMalformedDocument) {
			t.Errorf("Expected Validate to surface the decode error, got %v", err)
		}
	})
}
