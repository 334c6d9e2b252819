// Package api exposes the content engine over HTTP.
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gcbaptista/go-content-engine/internal/errors"
	"github.com/gcbaptista/go-content-engine/model"
)

const maxResultLimit = 100

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// DocumentPayload is the wire form of a document submitted for ingestion.
// Auxiliary signals arrive as an untyped bundle and are checked per document.
type DocumentPayload struct {
	ID               string            `json:"id"`
	PrimaryText      string            `json:"primary_text"`
	ContextText      string            `json:"context_text"`
	Keywords         []string          `json:"keywords"`
	AuxiliarySignals map[string]any    `json:"auxiliary_signals"`
	Directory        string            `json:"directory"`
	DurationSeconds  *float64          `json:"duration_seconds"`
	FilePath         string            `json:"file_path"`
	FileName         string            `json:"file_name"`
	MediaType        model.MediaType   `json:"media_type"`
	Transcripts      map[string]string `json:"transcripts"`
	CreatedAt        *time.Time        `json:"created_at"`
}

// ToDocument converts the payload. A malformed signal bundle does not fail the conversion; it
// marks the document so ingestion skips and reports it.
func (p DocumentPayload) ToDocument() model.Document {
	doc := model.Document{
		ID:              p.ID,
		PrimaryText:     p.PrimaryText,
		ContextText:     p.ContextText,
		Keywords:        p.Keywords,
		Category:        model.CategoryOther,
		Directory:       p.Directory,
		DurationSeconds: p.DurationSeconds,
		FilePath:        p.FilePath,
		FileName:        p.FileName,
		MediaType:       p.MediaType,
		Transcripts:     p.Transcripts,
	}
	if p.CreatedAt != nil {
		doc.CreatedAt = *p.CreatedAt
	}
	signals, err := model.ParseSignals(p.AuxiliarySignals)
	if err != nil {
		doc.DecodeErr = errors.NewMalformedDocumentError(p.ID, "auxiliary_signals", err)
	} else {
		doc.Signals = signals
	}
	return doc
}

// ValidateDocumentID validates a document ID
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("documentId", "Document ID is required")
		return result
	}

	if strings.TrimSpace(documentID) != documentID {
		result.AddError("documentId", "Document ID cannot have leading or trailing whitespace")
	}

	return result
}

// ValidateDocuments checks the shape of an ingestion batch. Content problems inside a single
// document are not rejected here; ingestion reports them per document.
func ValidateDocuments(docs []DocumentPayload) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(docs) == 0 {
		result.AddError("documents", "No documents provided")
		return result
	}

	seen := make(map[string]int, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			continue
		}
		if strings.TrimSpace(doc.ID) != doc.ID {
			result.AddError(fmt.Sprintf("documents[%d].id", i), "Document ID cannot have leading or trailing whitespace")
			continue
		}
		if first, dup := seen[doc.ID]; dup {
			result.AddError(fmt.Sprintf("documents[%d].id", i), fmt.Sprintf("Duplicate document ID '%s' (first seen at index %d)", doc.ID, first))
			continue
		}
		seen[doc.ID] = i
	}

	return result
}

// ValidateKeywords requires at least one non-blank keyword
func ValidateKeywords(keywords []string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	for _, kw := range keywords {
		if strings.TrimSpace(kw) != "" {
			return result
		}
	}
	result.AddError("keywords", "At least one non-empty keyword is required")
	return result
}

// ValidateLimit checks an optional result limit; zero selects the engine default
func ValidateLimit(limit int) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if limit < 0 {
		result.AddError("limit", "Limit cannot be negative")
	}
	if limit > maxResultLimit {
		result.AddError("limit", fmt.Sprintf("Limit cannot exceed %d", maxResultLimit))
	}

	return result
}

// ValidateAdvancedQuery checks the filters of an advanced search
func ValidateAdvancedQuery(q *model.AdvancedQuery) *ValidationResult {
	result := ValidateLimit(q.Limit)

	if q.MinDuration != nil && *q.MinDuration < 0 {
		result.AddError("min_duration", "Minimum duration cannot be negative")
	}
	if q.MaxDuration != nil && *q.MaxDuration < 0 {
		result.AddError("max_duration", "Maximum duration cannot be negative")
	}
	if q.MinDuration != nil && q.MaxDuration != nil && *q.MinDuration > *q.MaxDuration {
		result.AddError("min_duration", "Minimum duration cannot be greater than maximum duration")
	}

	return result
}

// ValidateCategory resolves a category path parameter
func ValidateCategory(label string) (model.Category, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	category, ok := model.LookupCategory(label)
	if !ok {
		result.AddError("category", fmt.Sprintf("Unknown category '%s'", label))
	}
	return category, result
}
