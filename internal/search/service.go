// Package search answers free-text, keyword, category and combined queries over a corpus snapshot.
package search

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gcbaptista/go-content-engine/index"
	"github.com/gcbaptista/go-content-engine/internal/errors"
	"github.com/gcbaptista/go-content-engine/internal/logging"
	"github.com/gcbaptista/go-content-engine/model"
)

// Service runs queries against one immutable corpus snapshot.
// A Service is cheap to create; hosts create one per snapshot.
type Service struct {
	snapshot     *index.Snapshot
	scorer       *KeywordScorer
	defaultLimit int
	logger       *slog.Logger
}

// NewService creates a search Service over snapshot.
func NewService(snapshot *index.Snapshot, defaultLimit int, logger *slog.Logger) (*Service, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot cannot be nil")
	}
	if defaultLimit <= 0 {
		defaultLimit = defaultPageSize
	}
	return &Service{
		snapshot:     snapshot,
		scorer:       NewKeywordScorer(),
		defaultLimit: defaultLimit,
		logger:       logging.OrDiscard(logger),
	}, nil
}

const defaultPageSize = 10

// Text ranks documents by cosine similarity to the query. limit <= 0 uses the default limit.
func (s *Service) Text(query string, limit int) []model.TextHit {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return s.textHits(s.snapshot.Search(query, limit))
}

func (s *Service) textHits(matches []index.Match) []model.TextHit {
	hits := make([]model.TextHit, len(matches))
	for i, m := range matches {
		hits[i] = model.TextHit{
			Document:   s.snapshot.Document(m.Row),
			Similarity: m.Similarity,
		}
	}
	return hits
}

// Keywords ranks the snapshot's documents against explicit keywords.
// Malformed documents are left out and listed in the returned report.
func (s *Service) Keywords(keywords []string, exact bool) ([]model.KeywordHit, model.BatchReport) {
	docs := s.snapshot.Documents()
	hits, skipped := s.scorer.Rank(docs, keywords, exact)

	report := model.BatchReport{
		Total:     len(docs),
		Processed: len(docs) - len(skipped),
		Skipped:   skipped,
	}
	for _, sk := range skipped {
		s.logger.Warn("skipping malformed document in keyword search", "document_id", sk.DocumentID, "reason", sk.Reason)
	}
	return hits, report
}

// ByCategory orders documents of one category by classifier confidence, highest first.
// Equal confidences keep the input order.
func ByCategory(docs []model.Document) []model.CategoryHit {
	hits := make([]model.CategoryHit, len(docs))
	for i, doc := range docs {
		hits[i] = model.CategoryHit{Document: doc, Confidence: doc.Confidence}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Confidence > hits[j].Confidence
	})
	return hits
}

// noCategoryFilter lists the category values that disable category filtering.
var noCategoryFilter = map[string]struct{}{"": {}, "all": {}, "todos": {}}

// Advanced combines a free-text query with category and duration filters.
// An empty query selects every document with similarity 1. Documents without a known duration
// are dropped when either duration bound is set. The limit is applied after filtering.
func (s *Service) Advanced(q model.AdvancedQuery) ([]model.TextHit, error) {
	if q.MinDuration != nil && q.MaxDuration != nil && *q.MinDuration > *q.MaxDuration {
		return nil, errors.NewValidationError("min_duration", fmt.Sprintf("%v is greater than max_duration %v", *q.MinDuration, *q.MaxDuration))
	}

	var hits []model.TextHit
	if strings.TrimSpace(q.Query) != "" {
		hits = s.textHits(s.snapshot.Search(q.Query, 0))
	} else {
		docs := s.snapshot.Documents()
		hits = make([]model.TextHit, len(docs))
		for i, doc := range docs {
			hits[i] = model.TextHit{Document: doc, Similarity: 1.0}
		}
	}

	categoryFilter := strings.ToLower(strings.TrimSpace(q.Category))
	var wanted model.Category
	filterByCategory := false
	if _, none := noCategoryFilter[categoryFilter]; !none {
		category, ok := model.LookupCategory(categoryFilter)
		if !ok {
			return nil, errors.NewValidationError("category", fmt.Sprintf("unknown category %q", q.Category))
		}
		wanted = category
		filterByCategory = true
	}

	filtered := make([]model.TextHit, 0, len(hits))
	for _, hit := range hits {
		if filterByCategory && hit.Document.Category != wanted {
			continue
		}
		if !withinDuration(&hit.Document, q.MinDuration, q.MaxDuration) {
			continue
		}
		filtered = append(filtered, hit)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func withinDuration(doc *model.Document, minDuration, maxDuration *float64) bool {
	if minDuration == nil && maxDuration == nil {
		return true
	}
	d, ok := doc.Duration()
	if !ok {
		return false
	}
	if minDuration != nil && d < *minDuration {
		return false
	}
	if maxDuration != nil && d > *maxDuration {
		return false
	}
	return true
}
