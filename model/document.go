package model

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gcbaptista/go-content-engine/internal/errors"
	"github.com/gcbaptista/go-content-engine/internal/tokenizer"
)

// MediaType identifies the kind of asset a document was derived from.
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeImage MediaType = "image"
	MediaTypeAudio MediaType = "audio"
)

// Document is the unit of indexing: the textual descriptors derived from one media asset.
// External producers fill the raw fields (transcripts, context, signals); the engine enriches
// Keywords, Category, Confidence and CategoryScores in place and hands the document back for persistence.
type Document struct {
	ID              string            `json:"id"`                         // Assigned by the store, never mutated by the engine
	PrimaryText     string            `json:"primary_text"`               // Canonical ranking body (e.g. transcript)
	ContextText     string            `json:"context_text,omitempty"`     // Derived narrative, lower weight in keyword search
	Keywords        []string          `json:"keywords"`                   // Relevance order, unique case-insensitively
	Category        Category          `json:"category"`                   // Always a member of the closed category set
	Confidence      float64           `json:"confidence"`                 // [0,1], 0 unless engine-assigned
	CategoryScores  map[Category]int  `json:"category_scores,omitempty"`  // Per-category classifier scores, for explainability
	Signals         *AuxiliarySignals `json:"auxiliary_signals,omitempty"` // Optional non-text features
	Directory       string            `json:"directory,omitempty"`        // Logical folder used for aggregation
	DurationSeconds *float64          `json:"duration_seconds,omitempty"`
	FilePath        string            `json:"file_path,omitempty"`
	FileName        string            `json:"file_name,omitempty"`
	MediaType       MediaType         `json:"media_type,omitempty"`
	Transcripts     map[string]string `json:"transcripts,omitempty"` // Language code -> transcript
	CreatedAt       time.Time         `json:"created_at"`
	ProcessedAt     *time.Time        `json:"processed_at,omitempty"`

	// Set when the engine, not the producer, filled Keywords or ContextText.
	KeywordsDerived bool `json:"keywords_derived,omitempty"`
	ContextDerived  bool `json:"context_derived,omitempty"`

	// DecodeErr is set when one of the document's fields could not be decoded, by a store or a wire decoder.
	// Such documents are skipped by batch operations instead of aborting them.
	DecodeErr error `json:"-"`
}

// HasSearchableText reports whether at least one field contributing to the corpus index is non-empty.
func (d *Document) HasSearchableText() bool {
	return strings.TrimSpace(d.SearchableText()) != ""
}

// SearchableText returns the concatenation indexed by the corpus: primary text, context text and keywords.
func (d *Document) SearchableText() string {
	var b strings.Builder
	if d.PrimaryText != "" {
		b.WriteString(d.PrimaryText)
		b.WriteByte(' ')
	}
	if d.ContextText != "" {
		b.WriteString(d.ContextText)
		b.WriteByte(' ')
	}
	if len(d.Keywords) > 0 {
		b.WriteString(strings.Join(d.Keywords, " "))
	}
	return strings.TrimSpace(b.String())
}

// NormalizeKeywords trims keywords, drops empty entries and removes duplicates under tokenizer.Fold,
// keeping the first occurrence so relevance order is preserved.
func (d *Document) NormalizeKeywords() {
	if len(d.Keywords) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(d.Keywords))
	cleaned := make([]string, 0, len(d.Keywords))
	for _, kw := range d.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := tokenizer.Fold(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, kw)
	}
	d.Keywords = cleaned
}

// ClearDerived drops the keywords and context text the engine derived itself, so the next
// enrichment recomputes them. Producer-supplied values are kept.
func (d *Document) ClearDerived() {
	if d.KeywordsDerived {
		d.Keywords = nil
		d.KeywordsDerived = false
	}
	if d.ContextDerived {
		d.ContextText = ""
		d.ContextDerived = false
	}
}

// NormalizeCategory forces Category into the closed set and Confidence into [0,1].
func (d *Document) NormalizeCategory() {
	d.Category = ParseCategory(string(d.Category))
	d.Confidence = ClampConfidence(d.Confidence)
}

// DeriveDirectory fills Directory and FileName from FilePath when they are absent.
func (d *Document) DeriveDirectory() {
	if d.FilePath == "" {
		return
	}
	if d.Directory == "" {
		d.Directory = filepath.Dir(d.FilePath)
	}
	if d.FileName == "" {
		d.FileName = filepath.Base(d.FilePath)
	}
}

// Duration returns the duration in seconds and whether it is known.
func (d *Document) Duration() (float64, bool) {
	if d.DurationSeconds == nil {
		return 0, false
	}
	return *d.DurationSeconds, true
}

// Validate checks the parts of a document that can be malformed at the source.
// It returns an *errors.MalformedDocumentError describing the first offending field.
func (d *Document) Validate() error {
	if d.DecodeErr != nil {
		var malformed *errors.MalformedDocumentError
		if stderrors.As(d.DecodeErr, &malformed) {
			return malformed
		}
		return errors.NewMalformedDocumentError(d.ID, "stored_fields", d.DecodeErr)
	}
	if d.Signals != nil {
		if err := d.Signals.Validate(); err != nil {
			return errors.NewMalformedDocumentError(d.ID, "auxiliary_signals", err)
		}
	}
	if d.DurationSeconds != nil && *d.DurationSeconds < 0 {
		return errors.NewMalformedDocumentError(d.ID, "duration_seconds", fmt.Errorf("negative duration %v", *d.DurationSeconds))
	}
	return nil
}

// Clone returns a copy whose slices and maps can be mutated without touching the original.
func (d Document) Clone() Document {
	c := d
	if d.Keywords != nil {
		c.Keywords = append([]string(nil), d.Keywords...)
	}
	if d.CategoryScores != nil {
		c.CategoryScores = make(map[Category]int, len(d.CategoryScores))
		for k, v := range d.CategoryScores {
			c.CategoryScores[k] = v
		}
	}
	if d.Transcripts != nil {
		c.Transcripts = make(map[string]string, len(d.Transcripts))
		for k, v := range d.Transcripts {
			c.Transcripts[k] = v
		}
	}
	if d.Signals != nil {
		s := *d.Signals
		c.Signals = &s
	}
	if d.DurationSeconds != nil {
		v := *d.DurationSeconds
		c.DurationSeconds = &v
	}
	if d.ProcessedAt != nil {
		t := *d.ProcessedAt
		c.ProcessedAt = &t
	}
	return c
}
