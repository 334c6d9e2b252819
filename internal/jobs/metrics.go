package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-content-engine/model"
)

const recentTimingsPerType = 100

// Metrics counts job lifecycle transitions
type Metrics struct {
	mu                 sync.RWMutex
	created            int64
	completed          int64
	failed             int64
	totalExecutionTime time.Duration
	byType             map[model.JobType]int64
	byStatus           map[model.JobStatus]int64
	recentTimings      map[model.JobType][]time.Duration
	lastUpdated        time.Time
}

// NewMetrics creates an empty metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		byType:        make(map[model.JobType]int64),
		byStatus:      make(map[model.JobStatus]int64),
		recentTimings: make(map[model.JobType][]time.Duration),
		lastUpdated:   time.Now(),
	}
}

// RecordCreated counts a new pending job
func (m *Metrics) RecordCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created++
	m.byType[jobType]++
	m.byStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

// RecordStatusChange moves one job between status buckets
func (m *Metrics) RecordStatusChange(oldStatus, newStatus model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldStatus != "" && m.byStatus[oldStatus] > 0 {
		m.byStatus[oldStatus]--
	}
	m.byStatus[newStatus]++
	m.lastUpdated = time.Now()
}

// RecordCompleted counts a successful job and its run time
func (m *Metrics) RecordCompleted(jobType model.JobType, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.completed++
	m.totalExecutionTime += elapsed

	timings := append(m.recentTimings[jobType], elapsed)
	if len(timings) > recentTimingsPerType {
		timings = timings[len(timings)-recentTimingsPerType:]
	}
	m.recentTimings[jobType] = timings
	m.lastUpdated = time.Now()
}

// RecordFailed counts a failed or cancelled job
func (m *Metrics) RecordFailed(model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failed++
	m.lastUpdated = time.Now()
}

// AverageExecutionTime averages the most recent successful runs of one job type
func (m *Metrics) AverageExecutionTime(jobType model.JobType) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	timings := m.recentTimings[jobType]
	if len(timings) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range timings {
		total += t
	}
	return total / time.Duration(len(timings))
}

// Snapshot returns a copy of the counters that is safe to hand out
func (m *Metrics) Snapshot() model.JobMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byType := make(map[model.JobType]int64, len(m.byType))
	for k, v := range m.byType {
		byType[k] = v
	}
	byStatus := make(map[model.JobStatus]int64, len(m.byStatus))
	for k, v := range m.byStatus {
		byStatus[k] = v
	}

	snapshot := model.JobMetrics{
		JobsCreated:        m.created,
		JobsCompleted:      m.completed,
		JobsFailed:         m.failed,
		TotalExecutionTime: m.totalExecutionTime,
		JobsByType:         byType,
		JobsByStatus:       byStatus,
		SuccessRate:        1.0, // No finished jobs yet
		ActiveJobs:         m.byStatus[model.JobStatusPending] + m.byStatus[model.JobStatusRunning],
		LastUpdated:        m.lastUpdated,
	}
	if m.completed > 0 {
		snapshot.AverageExecutionTime = m.totalExecutionTime / time.Duration(m.completed)
	}
	if finished := m.completed + m.failed; finished > 0 {
		snapshot.SuccessRate = float64(m.completed) / float64(finished)
	}
	return snapshot
}
