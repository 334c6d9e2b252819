// Package jobs runs ingest and rebuild batches in the background and tracks their
// status so clients can poll for the outcome of an asynchronous request.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-content-engine/internal/errors"
	"github.com/gcbaptista/go-content-engine/internal/logging"
	"github.com/gcbaptista/go-content-engine/model"
)

const (
	cleanupInterval = time.Hour
	retainFinished  = 24 * time.Hour
)

// Func is the unit of work executed for a job. The context is cancelled when the manager stops.
type Func func(ctx context.Context, jobID string) error

// Manager handles background job execution and tracking
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	queued   map[string]struct{} // Pending jobs already handed to ExecuteJob
	workers  chan struct{}       // Limits concurrent jobs
	stopChan chan struct{}
	stopOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	metrics  *Metrics
	logger   *slog.Logger
}

// NewManager creates a job manager that runs at most maxWorkers jobs at once
func NewManager(maxWorkers int, logger *slog.Logger) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:     make(map[string]*model.Job),
		queued:   make(map[string]struct{}),
		workers:  make(chan struct{}, maxWorkers),
		stopChan: make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		metrics:  NewMetrics(),
		logger:   logging.OrDiscard(logger).With("component", "jobs"),
	}
}

// Start launches the periodic cleanup of finished jobs
func (m *Manager) Start() {
	m.logger.Info("job manager started", "max_workers", cap(m.workers))
	go m.cleanupRoutine()
}

// Stop cancels running jobs and waits for them to return. It is safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		// Closed under mu so ExecuteJob never calls wg.Add after Wait has started
		m.mu.Lock()
		close(m.stopChan)
		m.mu.Unlock()
		m.cancel()
		m.wg.Wait()
		m.logger.Info("job manager stopped")
	})
}

// CreateJob registers a pending job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.metrics.RecordCreated(jobType)
	m.logger.Debug("job created", "job_id", job.ID, "type", job.Type)
	return job.ID
}

// GetJob returns a snapshot of the job with the given ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns every tracked job, oldest first, optionally filtered by status
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, copyJob(job))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// ExecuteJob queues a pending job and returns immediately. The job stays pending until a worker
// slot frees up, then runs fn; the outcome is recorded on the job.
func (m *Manager) ExecuteJob(jobID string, fn Func) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if _, dup := m.queued[jobID]; dup || job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	select {
	case <-m.stopChan:
		m.mu.Unlock()
		return fmt.Errorf("job manager is shutting down")
	default:
	}
	m.queued[jobID] = struct{}{}
	m.wg.Add(1)
	jobType := job.Type
	m.mu.Unlock()

	go m.run(jobID, jobType, fn)
	return nil
}

func (m *Manager) run(jobID string, jobType model.JobType, fn Func) {
	defer m.wg.Done()
	defer func() {
		m.mu.Lock()
		delete(m.queued, jobID)
		m.mu.Unlock()
	}()

	select {
	case m.workers <- struct{}{}:
	case <-m.ctx.Done():
		m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down")
		return
	}
	defer func() { <-m.workers }()

	if m.ctx.Err() != nil {
		m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down")
		return
	}

	m.mu.Lock()
	if job, exists := m.jobs[jobID]; exists {
		now := time.Now()
		job.Status = model.JobStatusRunning
		job.StartedAt = &now
	}
	m.mu.Unlock()
	m.metrics.RecordStatusChange(model.JobStatusPending, model.JobStatusRunning)

	started := time.Now()
	err := fn(m.ctx, jobID)
	elapsed := time.Since(started)

	switch {
	case err != nil && m.ctx.Err() != nil:
		m.updateJobStatus(jobID, model.JobStatusCancelled, err.Error())
		m.metrics.RecordFailed(jobType)
		m.logger.Warn("job cancelled", "job_id", jobID, "elapsed", elapsed)
	case err != nil:
		m.updateJobStatus(jobID, model.JobStatusFailed, err.Error())
		m.metrics.RecordFailed(jobType)
		m.logger.Error("job failed", "job_id", jobID, "elapsed", elapsed, "error", err)
	default:
		m.updateJobStatus(jobID, model.JobStatusCompleted, "")
		m.metrics.RecordCompleted(jobType, elapsed)
		m.logger.Info("job completed", "job_id", jobID, "type", jobType, "elapsed", elapsed)
	}
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

// SetJobReport attaches the batch outcome to a job
func (m *Manager) SetJobReport(jobID string, report model.BatchReport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	r := report
	r.Skipped = append([]model.SkippedDocument(nil), report.Skipped...)
	job.Report = &r
}

func (m *Manager) updateJobStatus(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return
	}

	oldStatus := job.Status
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	if status.IsFinished() {
		now := time.Now()
		job.CompletedAt = &now
	}
	m.mu.Unlock()

	m.metrics.RecordStatusChange(oldStatus, status)
}

func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(retainFinished)
		case <-m.stopChan:
			return
		}
	}
}

// CleanupOldJobs forgets finished jobs that completed more than maxAge ago
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		m.logger.Info("cleaned up finished jobs", "count", cleaned)
	}
	return cleaned
}

// Metrics returns a point-in-time copy of the job counters
func (m *Manager) Metrics() model.JobMetrics {
	return m.metrics.Snapshot()
}

func copyJob(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	if job.Report != nil {
		reportCopy := *job.Report
		reportCopy.Skipped = append([]model.SkippedDocument(nil), job.Report.Skipped...)
		jobCopy.Report = &reportCopy
	}
	if job.Metadata != nil {
		jobCopy.Metadata = make(map[string]string, len(job.Metadata))
		for k, v := range job.Metadata {
			jobCopy.Metadata[k] = v
		}
	}
	return &jobCopy
}
