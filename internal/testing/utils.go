// Package testing provides fixtures and helpers shared by the engine, API and CLI tests.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-content-engine/config"
	"github.com/gcbaptista/go-content-engine/internal/engine"
	"github.com/gcbaptista/go-content-engine/model"
	"github.com/gcbaptista/go-content-engine/services"
	"github.com/gcbaptista/go-content-engine/store"
)

// Document IDs of SampleDocuments.
const (
	SportsDocID      = "sports"
	SportsRecapDocID = "sports-recap"
	CookingDocID     = "cooking"
	TechDocID        = "tech"
)

func floatPtr(v float64) *float64 { return &v }

// SampleDocuments returns a small Portuguese corpus with one document per category of interest.
// The two sports documents share the keywords "futebol" and "jogo"; nothing else overlaps.
func SampleDocuments() []model.Document {
	return []model.Document{
		{
			ID:              SportsDocID,
			PrimaryText:     "O jogo de futebol foi uma grande competição entre atletas",
			Directory:       "esportes",
			DurationSeconds: floatPtr(120),
			MediaType:       model.MediaTypeVideo,
			Transcripts:     map[string]string{"pt": "O jogo de futebol foi uma grande competição entre atletas"},
		},
		{
			ID:              SportsRecapDocID,
			PrimaryText:     "Resumo do futebol e do jogo de ontem",
			Directory:       "esportes",
			DurationSeconds: floatPtr(60),
			MediaType:       model.MediaTypeVideo,
		},
		{
			ID:              CookingDocID,
			PrimaryText:     "Receita de bolo: cozinhar com ingredientes simples e comida caseira",
			Directory:       "cozinha",
			DurationSeconds: floatPtr(300),
			MediaType:       model.MediaTypeVideo,
			Transcripts:     map[string]string{"pt": "Receita de bolo", "en": "Cake recipe"},
		},
		{
			ID:          TechDocID,
			PrimaryText: "Aula de programação de software e tecnologia digital",
			Directory:   "cursos",
			MediaType:   model.MediaTypeAudio,
		},
	}
}

// NewTestEngine creates an engine over an empty in-memory store. It is closed when the test ends.
func NewTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return NewTestEngineWithStore(t, store.NewMemoryStore())
}

// NewTestEngineWithStore creates an engine over st. It is closed when the test ends.
func NewTestEngineWithStore(t *testing.T, st store.Store) *engine.Engine {
	t.Helper()
	eng, err := engine.New(config.DefaultSettings(), st, engine.Options{})
	require.NoError(t, err, "Failed to create test engine")
	t.Cleanup(func() {
		_ = eng.Close()
	})
	return eng
}

// NewSeededEngine creates a test engine and ingests SampleDocuments into it.
func NewSeededEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := NewTestEngine(t)
	report, err := eng.Ingest(context.Background(), SampleDocuments())
	require.NoError(t, err, "Failed to ingest sample documents")
	require.Empty(t, report.Skipped, "Sample documents should all be valid")
	return eng
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      5 * time.Second,
		PollInterval: 10 * time.Millisecond,
	}
}

// WaitForJob polls a job until it reaches a finished status or times out
func WaitForJob(t *testing.T, tracker services.JobTracker, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not finish within %v", jobID, opts.Timeout)
			return nil
		case <-ticker.C:
			job, err := tracker.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")
			if job.Status.IsFinished() {
				return job
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}

// HitIDs returns the document IDs of text hits in rank order.
func HitIDs(hits []model.TextHit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.Document.ID
	}
	return ids
}
