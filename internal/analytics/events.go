package analytics

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-content-engine/internal/logging"
	"github.com/gcbaptista/go-content-engine/model"
)

const (
	maxEventsToKeep    = 10000 // Keep last 10k events for performance
	maxPopularSearches = 5
)

// EventLog records search events and reports aggregate statistics over them.
// It is safe for concurrent use.
type EventLog struct {
	mutex        sync.RWMutex
	events       []model.SearchEvent
	dataFilePath string
	logger       *slog.Logger
}

// NewEventLog creates an event log. When dataFilePath is non-empty, previously flushed events are
// loaded from it and Flush writes the log back.
func NewEventLog(dataFilePath string, logger *slog.Logger) *EventLog {
	l := &EventLog{
		events:       make([]model.SearchEvent, 0),
		dataFilePath: dataFilePath,
		logger:       logging.OrDiscard(logger),
	}

	if err := l.loadData(); err != nil {
		l.logger.Warn("failed to load analytics data", "path", dataFilePath, "error", err)
	}

	return l
}

// Track records a search event, stamping its id and timestamp when missing.
func (l *EventLog) Track(event model.SearchEvent) {
	if event.QueryID == "" {
		event.QueryID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.events = append(l.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(l.events) > maxEventsToKeep {
		l.events = l.events[len(l.events)-maxEventsToKeep:]
	}
}

// Len returns the number of retained events.
func (l *EventLog) Len() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return len(l.events)
}

// Stats aggregates every retained event.
func (l *EventLog) Stats() model.SearchStats {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	stats := model.SearchStats{
		TotalSearches:     len(l.events),
		AvgResponseTimeMs: calculateAvgResponseTime(l.events),
		PopularSearches:   getPopularSearches(l.events),
		SearchTypes:       make(map[model.SearchType]int),
	}
	for _, event := range l.events {
		stats.SearchTypes[event.SearchType]++
		if event.ResultCount == 0 {
			stats.ZeroResultCount++
		}
	}
	return stats
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	avgDuration := total / time.Duration(len(events))
	return avgDuration.Milliseconds()
}

// getPopularSearches returns the most popular search terms
func getPopularSearches(events []model.SearchEvent) []model.PopularSearch {
	queryCounts := make(map[string]int)

	for _, event := range events {
		if event.Query != "" {
			queryCounts[event.Query]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}

	// Sort by count descending, then alphabetically for a stable report
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > maxPopularSearches {
		popular = popular[:maxPopularSearches]
	}
	return popular
}

// loadData loads analytics data from file
func (l *EventLog) loadData() error {
	if l.dataFilePath == "" {
		return nil
	}

	data, err := os.ReadFile(l.dataFilePath)
	if os.IsNotExist(err) {
		return nil // File doesn't exist yet, that's okay
	}
	if err != nil {
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	if err := json.Unmarshal(data, &l.events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}

	return nil
}

// Flush saves the retained events to the data file. It is a no-op for in-memory logs.
func (l *EventLog) Flush() error {
	if l.dataFilePath == "" {
		return nil
	}

	l.mutex.RLock()
	data, err := json.MarshalIndent(l.events, "", "  ")
	l.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %w", err)
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(l.dataFilePath), 0750); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	if err := os.WriteFile(l.dataFilePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}

	return nil
}
