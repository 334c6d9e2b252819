package model

import "time"

// SearchType labels the retrieval path a search event went through.
type SearchType string

const (
	SearchTypeText     SearchType = "text"
	SearchTypeKeywords SearchType = "keywords"
	SearchTypeSimilar  SearchType = "similar"
	SearchTypeCategory SearchType = "category"
	SearchTypeAdvanced SearchType = "advanced"
)

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	QueryID      string        `json:"query_id"`
	Query        string        `json:"query"`
	SearchType   SearchType    `json:"search_type"`
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search terms
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// SearchStats is the aggregate view over the recorded search events.
type SearchStats struct {
	TotalSearches     int                `json:"total_searches"`
	ZeroResultCount   int                `json:"zero_result_count"`
	AvgResponseTimeMs int64              `json:"avg_response_time_ms"`
	PopularSearches   []PopularSearch    `json:"popular_searches"`
	SearchTypes       map[SearchType]int `json:"search_types"`
}
