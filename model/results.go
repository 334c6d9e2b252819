package model

// TextHit is a free-text similarity search result.
type TextHit struct {
	Document   Document `json:"document"`
	Similarity float64  `json:"similarity_score"`
}

// KeywordHit is a keyword search result with match provenance.
type KeywordHit struct {
	Document        Document `json:"document"`
	Score           int      `json:"score"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// SimilarHit is a related-content result ranked by keyword overlap with a target document.
type SimilarHit struct {
	Document   Document `json:"document"`
	Similarity float64  `json:"similarity_score"`
}

// CategoryHit is a category lookup result.
type CategoryHit struct {
	Document   Document `json:"document"`
	Confidence float64  `json:"confidence"`
}

// Classification is the classifier output. Scores is kept for explainability only.
type Classification struct {
	Category   Category         `json:"category"`
	Confidence float64          `json:"confidence"`
	Scores     map[Category]int `json:"scores"`
}

// AdvancedQuery combines free-text search with category and duration filters.
type AdvancedQuery struct {
	Query       string   `json:"query"`
	Category    string   `json:"category,omitempty"` // Empty, "all" or "todos" disables the filter
	MinDuration *float64 `json:"min_duration,omitempty"`
	MaxDuration *float64 `json:"max_duration,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

// SkippedDocument records why a document was left out of a batch operation.
type SkippedDocument struct {
	DocumentID string `json:"document_id"`
	Reason     string `json:"reason"`
}

// BatchReport summarises a batch operation over many documents.
type BatchReport struct {
	Total     int               `json:"total"`
	Processed int               `json:"processed"`
	Excluded  int               `json:"excluded,omitempty"` // Valid but left out (e.g. nothing to index)
	Skipped   []SkippedDocument `json:"skipped,omitempty"`
}

// Skip appends a skipped document to the report.
func (r *BatchReport) Skip(documentID, reason string) {
	r.Skipped = append(r.Skipped, SkippedDocument{DocumentID: documentID, Reason: reason})
}

// Merge folds other into r.
func (r *BatchReport) Merge(other BatchReport) {
	r.Total += other.Total
	r.Processed += other.Processed
	r.Excluded += other.Excluded
	r.Skipped = append(r.Skipped, other.Skipped...)
}
