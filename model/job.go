package model

import (
	"time"
)

// JobStatus represents the status of a long-running job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusRunning    JobStatus = "running"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelling JobStatus = "cancelling"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobType represents the type of job being executed
type JobType string

const (
	JobTypeIngest    JobType = "ingest"
	JobTypeRebuild   JobType = "rebuild"
	JobTypeReprocess JobType = "reprocess"
)

// Job represents a long-running background operation such as an ingest batch or a corpus rebuild
type Job struct {
	ID          string            `json:"id"`
	Type        JobType           `json:"type"`
	Status      JobStatus         `json:"status"`
	Progress    *JobProgress      `json:"progress,omitempty"`
	Report      *BatchReport      `json:"report,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// JobProgress tracks the progress of a job
type JobProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

// GetProgressPercentage returns the progress as a percentage (0-100)
func (jp *JobProgress) GetProgressPercentage() float64 {
	if jp.Total == 0 {
		return 0
	}
	return float64(jp.Current) / float64(jp.Total) * 100
}

// IsFinished reports whether the status is terminal
func (s JobStatus) IsFinished() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// JobMetrics is a point-in-time view of the job counters
type JobMetrics struct {
	JobsCreated          int64               `json:"jobs_created"`
	JobsCompleted        int64               `json:"jobs_completed"`
	JobsFailed           int64               `json:"jobs_failed"`
	TotalExecutionTime   time.Duration       `json:"total_execution_time_ns"`
	AverageExecutionTime time.Duration       `json:"average_execution_time_ns"`
	JobsByType           map[JobType]int64   `json:"jobs_by_type"`
	JobsByStatus         map[JobStatus]int64 `json:"jobs_by_status"`
	SuccessRate          float64             `json:"success_rate"`
	ActiveJobs           int64               `json:"active_jobs"`
	LastUpdated          time.Time           `json:"last_updated"`
}
