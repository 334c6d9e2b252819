package model

// Summary is the rollup of one document set (a directory or the whole corpus).
type Summary struct {
	Directory            string            `json:"directory,omitempty"`
	DocumentCount        int               `json:"document_count"`
	TotalDurationSeconds float64           `json:"total_duration_seconds"`
	TotalDurationHours   float64           `json:"total_duration_hours"`
	Categories           map[Category]int  `json:"categories"`
	MediaTypes           map[MediaType]int `json:"media_types,omitempty"`
}

// GlobalSummary extends Summary with the directories and transcript languages seen across the corpus.
type GlobalSummary struct {
	Summary
	Directories []string       `json:"directories"`
	Languages   map[string]int `json:"languages"`
}

// DirectoryRollup is one row of the per-directory aggregation.
type DirectoryRollup struct {
	Directory          string           `json:"directory"`
	Count              int              `json:"count"`
	Categories         map[Category]int `json:"categories"`
	AvgDurationSeconds float64          `json:"avg_duration_seconds"`
}
