package engine

import (
	"context"

	"github.com/gcbaptista/go-content-engine/internal/analytics"
	"github.com/gcbaptista/go-content-engine/model"
)

// DirectorySummary aggregates the documents filed under one directory.
func (e *Engine) DirectorySummary(ctx context.Context, directory string) (model.Summary, error) {
	r, err := e.reporter(ctx)
	if err != nil {
		return model.Summary{}, err
	}
	return r.DirectorySummary(directory), nil
}

// GlobalSummary aggregates the whole corpus.
func (e *Engine) GlobalSummary(ctx context.Context) (model.GlobalSummary, error) {
	r, err := e.reporter(ctx)
	if err != nil {
		return model.GlobalSummary{}, err
	}
	return r.GlobalSummary(), nil
}

// DirectoryRollups returns one aggregate per directory, largest first.
func (e *Engine) DirectoryRollups(ctx context.Context) ([]model.DirectoryRollup, error) {
	r, err := e.reporter(ctx)
	if err != nil {
		return nil, err
	}
	return r.DirectoryRollups(), nil
}

// SearchStats summarises the recorded search events.
func (e *Engine) SearchStats() model.SearchStats {
	return e.events.Stats()
}

// reporter builds a Reporter over a fresh read of the store.
func (e *Engine) reporter(ctx context.Context) (*analytics.Reporter, error) {
	docs, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, asStoreError("list documents", err)
	}
	return analytics.NewReporter(docs), nil
}
