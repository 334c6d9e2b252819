package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gcbaptista/go-content-engine/model"
)

// IngestAsync ingests docs in the background and returns the tracking job ID.
func (e *Engine) IngestAsync(docs []model.Document) (string, error) {
	batch := make([]model.Document, len(docs))
	for i := range docs {
		batch[i] = docs[i].Clone()
	}

	jobID := e.jobManager.CreateJob(model.JobTypeIngest, map[string]string{
		"operation":      "ingest",
		"document_count": strconv.Itoa(len(batch)),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, jobID string) error {
		return e.executeIngestJob(ctx, batch, jobID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start ingest job: %w", err)
	}
	return jobID, nil
}

func (e *Engine) executeIngestJob(ctx context.Context, docs []model.Document, jobID string) error {
	e.jobManager.UpdateJobProgress(jobID, 0, len(docs), "Enriching documents")

	report, err := e.Ingest(ctx, docs)
	e.jobManager.SetJobReport(jobID, report)
	if err != nil {
		return fmt.Errorf("ingest %d documents: %w", len(docs), err)
	}

	e.jobManager.UpdateJobProgress(jobID, report.Total, report.Total,
		fmt.Sprintf("Stored %d documents, skipped %d", report.Processed, len(report.Skipped)))
	return nil
}

// RebuildAsync rebuilds the index in the background and returns the tracking job ID.
func (e *Engine) RebuildAsync() (string, error) {
	jobID := e.jobManager.CreateJob(model.JobTypeRebuild, map[string]string{
		"operation": "rebuild",
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, jobID string) error {
		e.jobManager.UpdateJobProgress(jobID, 0, 1, "Rebuilding corpus index")
		stats, err := e.Rebuild(ctx)
		if err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
		e.jobManager.SetJobReport(jobID, model.BatchReport{
			Total:     stats.Documents + stats.Skipped,
			Processed: stats.Indexed,
			Excluded:  stats.Excluded,
		})
		e.jobManager.UpdateJobProgress(jobID, 1, 1, fmt.Sprintf("Indexed %d documents", stats.Indexed))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to start rebuild job: %w", err)
	}
	return jobID, nil
}

// ReprocessAsync re-enriches the stored corpus in the background and returns the tracking job ID.
func (e *Engine) ReprocessAsync() (string, error) {
	jobID := e.jobManager.CreateJob(model.JobTypeReprocess, map[string]string{
		"operation": "reprocess",
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, jobID string) error {
		e.jobManager.UpdateJobProgress(jobID, 0, 1, "Reprocessing stored documents")
		report, err := e.Reprocess(ctx)
		e.jobManager.SetJobReport(jobID, report)
		if err != nil {
			return fmt.Errorf("reprocess: %w", err)
		}
		e.jobManager.UpdateJobProgress(jobID, 1, 1, fmt.Sprintf("Reprocessed %d documents", report.Processed))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to start reprocess job: %w", err)
	}
	return jobID, nil
}

// GetJob returns the state of a background job.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns the tracked jobs, optionally filtered by status.
func (e *Engine) ListJobs(status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(status)
}

// JobMetrics returns the background job counters.
func (e *Engine) JobMetrics() model.JobMetrics {
	return e.jobManager.Metrics()
}
