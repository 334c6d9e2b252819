// Package services declares the contracts the HTTP and CLI surfaces depend on.
package services

import (
	"context"

	"github.com/gcbaptista/go-content-engine/index"
	"github.com/gcbaptista/go-content-engine/model"
)

// Ingester adds documents to the corpus and refreshes the index.
type Ingester interface {
	// Ingest enriches docs, stores the valid ones and rebuilds the index.
	// Malformed documents are reported, never fatal.
	Ingest(ctx context.Context, docs []model.Document) (model.BatchReport, error)
	// Rebuild reloads the corpus from the store and atomically publishes a new snapshot.
	Rebuild(ctx context.Context) (index.BuildStats, error)
	// Reprocess re-enriches every stored document with the current settings.
	Reprocess(ctx context.Context) (model.BatchReport, error)
}

// Searcher answers queries against the current snapshot.
type Searcher interface {
	Search(query string, limit int) ([]model.TextHit, error)
	KeywordSearch(keywords []string, exact bool) ([]model.KeywordHit, model.BatchReport, error)
	AdvancedSearch(query model.AdvancedQuery) ([]model.TextHit, error)
	FindSimilar(ctx context.Context, documentID string, limit int) ([]model.SimilarHit, error)
	SearchByCategory(ctx context.Context, category model.Category) ([]model.CategoryHit, error)
	Document(ctx context.Context, documentID string) (model.Document, error)
	Classify(text string, signals *model.AuxiliarySignals) model.Classification
}

// Reporter aggregates the corpus and the recorded search activity.
type Reporter interface {
	DirectorySummary(ctx context.Context, directory string) (model.Summary, error)
	GlobalSummary(ctx context.Context) (model.GlobalSummary, error)
	DirectoryRollups(ctx context.Context) ([]model.DirectoryRollup, error)
	SearchStats() model.SearchStats
}

// JobTracker starts background batches and reports on them.
type JobTracker interface {
	IngestAsync(docs []model.Document) (string, error)
	RebuildAsync() (string, error)
	ReprocessAsync() (string, error)
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
	JobMetrics() model.JobMetrics
}

// ContentEngine is the full engine surface.
type ContentEngine interface {
	Ingester
	Searcher
	Reporter
	JobTracker
	Ready() bool
	Close() error
}
