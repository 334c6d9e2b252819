package engine

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/gcbaptista/go-content-engine/index"
	"github.com/gcbaptista/go-content-engine/internal/errors"
	"github.com/gcbaptista/go-content-engine/internal/search"
	"github.com/gcbaptista/go-content-engine/model"
)

// Ingest enriches docs, upserts the valid ones and rebuilds the index.
// Malformed documents are listed in the report and never abort the batch.
func (e *Engine) Ingest(ctx context.Context, docs []model.Document) (model.BatchReport, error) {
	outcomes, report, err := e.enricher.EnrichBatch(ctx, docs)
	if err != nil {
		return model.BatchReport{}, err
	}

	enriched := make([]model.Document, 0, report.Processed)
	for _, o := range outcomes {
		if o.Skipped() {
			continue
		}
		if !o.Document.HasSearchableText() {
			report.Excluded++
		}
		enriched = append(enriched, o.Document)
	}

	if len(enriched) > 0 {
		if _, err := e.store.Upsert(ctx, enriched...); err != nil {
			return report, asStoreError("upsert documents", err)
		}
	}

	stats, err := e.Rebuild(ctx)
	if err != nil {
		return report, err
	}
	e.logger.Info("ingest completed",
		"received", report.Total,
		"stored", len(enriched),
		"skipped", len(report.Skipped),
		"corpus_size", stats.Documents)
	return report, nil
}

// Reprocess re-runs enrichment over every stored document, then rebuilds the index.
// Keywords and context text the engine derived earlier are recomputed with the current
// settings; values supplied by producers are kept.
func (e *Engine) Reprocess(ctx context.Context) (model.BatchReport, error) {
	docs, err := e.store.ListAll(ctx)
	if err != nil {
		return model.BatchReport{}, asStoreError("list documents", err)
	}
	for i := range docs {
		docs[i].ClearDerived()
	}
	e.logger.Info("reprocessing stored documents", "documents", len(docs))
	return e.Ingest(ctx, docs)
}

// Rebuild reloads every document from the store, builds a fresh snapshot and publishes it.
// Concurrent calls are serialised; readers keep the previous snapshot until the swap.
func (e *Engine) Rebuild(ctx context.Context) (index.BuildStats, error) {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	docs, err := e.store.ListAll(ctx)
	if err != nil {
		return index.BuildStats{}, asStoreError("list documents", err)
	}

	valid := make([]model.Document, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			e.logger.Warn("leaving malformed document out of the index", "document_id", doc.ID, "error", err)
			skipped++
			continue
		}
		valid = append(valid, doc)
	}

	snapshot, stats := index.Build(valid, e.normalizer)
	stats.Skipped = skipped

	searcher, err := search.NewService(snapshot, e.settings.Engine.DefaultSearchLimit, e.logger.With("component", "search"))
	if err != nil {
		return index.BuildStats{}, fmt.Errorf("create search service: %w", err)
	}
	e.current.Store(&published{snapshot: snapshot, searcher: searcher})

	e.logger.Info("corpus rebuilt",
		"documents", stats.Documents,
		"indexed", stats.Indexed,
		"excluded", stats.Excluded,
		"skipped", stats.Skipped,
		"terms", stats.Terms,
		"duration", stats.Duration)
	return stats, nil
}

// view returns the published snapshot or an IndexUnavailableError naming the operation.
func (e *Engine) view(operation string) (*published, error) {
	p := e.current.Load()
	if p == nil {
		return nil, errors.NewIndexUnavailableError(operation)
	}
	return p, nil
}

// asStoreError leaves typed store errors untouched and wraps anything else as a StoreAccessError.
func asStoreError(operation string, err error) error {
	if stderrors.Is(err, errors.ErrStoreAccess) || stderrors.Is(err, errors.ErrDocumentNotFound) {
		return err
	}
	return errors.NewStoreAccessError(operation, err)
}
