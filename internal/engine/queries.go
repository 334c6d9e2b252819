package engine

import (
	"context"
	"strings"
	"time"

	"github.com/gcbaptista/go-content-engine/internal/search"
	"github.com/gcbaptista/go-content-engine/model"
)

// Search ranks documents by similarity to a free-text query.
func (e *Engine) Search(query string, limit int) ([]model.TextHit, error) {
	start := time.Now()
	p, err := e.view("search")
	if err != nil {
		return nil, err
	}
	hits := p.searcher.Text(query, limit)
	e.track(query, model.SearchTypeText, start, len(hits))
	return hits, nil
}

// KeywordSearch scores documents against a keyword list. Documents that cannot be scored are
// reported and left out.
func (e *Engine) KeywordSearch(keywords []string, exact bool) ([]model.KeywordHit, model.BatchReport, error) {
	start := time.Now()
	p, err := e.view("search keywords")
	if err != nil {
		return nil, model.BatchReport{}, err
	}
	hits, report := p.searcher.Keywords(keywords, exact)
	for _, skipped := range report.Skipped {
		e.logger.Warn("keyword search skipped document", "document_id", skipped.DocumentID, "reason", skipped.Reason)
	}
	e.track(strings.Join(keywords, " "), model.SearchTypeKeywords, start, len(hits))
	return hits, report, nil
}

// AdvancedSearch combines free-text ranking with category and duration filters.
func (e *Engine) AdvancedSearch(query model.AdvancedQuery) ([]model.TextHit, error) {
	start := time.Now()
	p, err := e.view("run advanced search")
	if err != nil {
		return nil, err
	}
	hits, err := p.searcher.Advanced(query)
	if err != nil {
		return nil, err
	}
	e.track(query.Query, model.SearchTypeAdvanced, start, len(hits))
	return hits, nil
}

// FindSimilar returns documents sharing keywords with the given document, most similar first.
func (e *Engine) FindSimilar(ctx context.Context, documentID string, limit int) ([]model.SimilarHit, error) {
	start := time.Now()
	p, err := e.view("find similar documents")
	if err != nil {
		return nil, err
	}

	var target model.Document
	if row, ok := p.snapshot.Row(documentID); ok {
		target = p.snapshot.Document(row)
	} else {
		target, err = e.store.FindByID(ctx, documentID)
		if err != nil {
			return nil, asStoreError("find document", err)
		}
	}

	hits := e.finder.FindSimilar(&target, p.snapshot, limit)
	e.track(documentID, model.SearchTypeSimilar, start, len(hits))
	return hits, nil
}

// SearchByCategory lists the documents of one category, highest confidence first.
// It reads the store directly and does not need a published index.
func (e *Engine) SearchByCategory(ctx context.Context, category model.Category) ([]model.CategoryHit, error) {
	start := time.Now()
	docs, err := e.store.FindByCategory(ctx, category)
	if err != nil {
		return nil, asStoreError("find by category", err)
	}
	hits := search.ByCategory(docs)
	e.track(string(category), model.SearchTypeCategory, start, len(hits))
	return hits, nil
}

// Document returns one stored document.
func (e *Engine) Document(ctx context.Context, documentID string) (model.Document, error) {
	doc, err := e.store.FindByID(ctx, documentID)
	if err != nil {
		return model.Document{}, asStoreError("find document", err)
	}
	return doc, nil
}

// Classify assigns a category to raw text without touching the corpus.
func (e *Engine) Classify(text string, signals *model.AuxiliarySignals) model.Classification {
	return e.enricher.Classifier().Classify(text, signals)
}

func (e *Engine) track(query string, searchType model.SearchType, start time.Time, results int) {
	e.events.Track(model.SearchEvent{
		Query:        query,
		SearchType:   searchType,
		ResponseTime: time.Since(start),
		ResultCount:  results,
	})
}
