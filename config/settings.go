// Package config provides configuration structures for the content engine.
// It defines the category trigger table, classifier bonus rules, text normalisation
// parameters, result bounds, and the storage, server and logging options.
package config

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-content-engine/model"
)

// CategoryRule binds a category to the trigger terms that vote for it.
// The order of Settings.Engine.Categories is the enumeration order used to break classifier ties.
type CategoryRule struct {
	Category model.Category `json:"category" yaml:"category" toml:"category"`
	Triggers []string       `json:"triggers" yaml:"triggers" toml:"triggers"`
}

// BonusRule adds a fixed score to a category when the document's auxiliary signals satisfy every condition set.
// A rule never fires for documents without signals.
type BonusRule struct {
	Category        model.Category `json:"category" yaml:"category" toml:"category"`
	RequireFaces    bool           `json:"require_faces,omitempty" yaml:"require_faces,omitempty" toml:"require_faces,omitempty"`
	MinBrightness   *float64       `json:"min_brightness,omitempty" yaml:"min_brightness,omitempty" toml:"min_brightness,omitempty"` // Exclusive lower bound
	MinSceneChanges *int           `json:"min_scene_changes,omitempty" yaml:"min_scene_changes,omitempty" toml:"min_scene_changes,omitempty"`
	Bonus           int            `json:"bonus" yaml:"bonus" toml:"bonus"`
}

// Matches reports whether the rule fires for the given signals.
func (r BonusRule) Matches(signals *model.AuxiliarySignals) bool {
	if signals == nil {
		return false
	}
	if r.RequireFaces && !signals.HasFaces {
		return false
	}
	if r.MinBrightness != nil && !(signals.AvgBrightness > *r.MinBrightness) {
		return false
	}
	if r.MinSceneChanges != nil && signals.SceneChanges < *r.MinSceneChanges {
		return false
	}
	return true
}

// EngineSettings holds the data that drives normalisation, extraction, classification and result bounds.
type EngineSettings struct {
	Stopwords            []string       `json:"stopwords" yaml:"stopwords" toml:"stopwords"`
	MinTokenLength       int            `json:"min_token_length" yaml:"min_token_length" toml:"min_token_length"`                      // Shorter tokens are dropped (default 2)
	MaxKeywords          int            `json:"max_keywords" yaml:"max_keywords" toml:"max_keywords"`                                  // Per-document keyword bound (default 20)
	MinKeywordTextLength int            `json:"min_keyword_text_length" yaml:"min_keyword_text_length" toml:"min_keyword_text_length"` // Texts shorter than this yield no keywords (default 10)
	DefaultSearchLimit   int            `json:"default_search_limit" yaml:"default_search_limit" toml:"default_search_limit"`
	DefaultSimilarLimit  int            `json:"default_similar_limit" yaml:"default_similar_limit" toml:"default_similar_limit"`
	Categories           []CategoryRule `json:"categories" yaml:"categories" toml:"categories"`
	BonusRules           []BonusRule    `json:"bonus_rules" yaml:"bonus_rules" toml:"bonus_rules"`
	GenerateContext      bool           `json:"generate_context" yaml:"generate_context" toml:"generate_context"` // Derive ContextText when producers leave it empty
	Workers              int            `json:"workers" yaml:"workers" toml:"workers"`                            // Parallel enrichment workers
}

// StorageSettings selects the record store backend.
type StorageSettings struct {
	Backend string `json:"backend" yaml:"backend" toml:"backend"` // "memory" or "sqlite"
	DataDir string `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Port            string `json:"port" yaml:"port" toml:"port"`
	MaxRequestBytes int64  `json:"max_request_bytes" yaml:"max_request_bytes" toml:"max_request_bytes"`
}

// LoggingSettings configures the slog handler.
type LoggingSettings struct {
	Level  string `json:"level" yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format" toml:"format"` // text or json
}

// Settings is the full configuration, supplied once at construction time.
type Settings struct {
	Engine  EngineSettings  `json:"engine" yaml:"engine" toml:"engine"`
	Storage StorageSettings `json:"storage" yaml:"storage" toml:"storage"`
	Server  ServerSettings  `json:"server" yaml:"server" toml:"server"`
	Logging LoggingSettings `json:"logging" yaml:"logging" toml:"logging"`
}

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// DefaultStopwords is the function-word list of the corpus's dominant language (Portuguese).
func DefaultStopwords() []string {
	return []string{"de", "da", "do", "para", "com", "em", "no", "na", "um", "uma", "o", "a", "e", "que"}
}

// DefaultCategoryRules returns the trigger table in enumeration order.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Category: model.CategoryEducation, Triggers: []string{"aula", "ensino", "aprender", "estudar", "explicar", "conhecimento", "educação"}},
		{Category: model.CategoryEntertainment, Triggers: []string{"diversão", "entretenimento", "filme", "série", "comédia", "drama"}},
		{Category: model.CategoryNews, Triggers: []string{"notícia", "jornal", "informação", "reportagem", "atualidade"}},
		{Category: model.CategorySports, Triggers: []string{"futebol", "basquete", "esporte", "jogo", "competição", "atleta"}},
		{Category: model.CategoryTechnology, Triggers: []string{"tecnologia", "computador", "software", "programação", "digital"}},
		{Category: model.CategoryCooking, Triggers: []string{"receita", "cozinhar", "comida", "ingrediente", "culinária"}},
		{Category: model.CategoryMusic, Triggers: []string{"música", "cantar", "instrumento", "banda", "som", "melodia"}},
		{Category: model.CategoryGaming, Triggers: []string{"game", "jogo", "jogar", "gamer", "gameplay", "videogame"}},
		{Category: model.CategoryTutorial, Triggers: []string{"como fazer", "tutorial", "passo a passo", "ensinar", "guia"}},
		{Category: model.CategoryDocumentary, Triggers: []string{"documentário", "história", "realidade", "investigação"}},
		{Category: model.CategoryAdult, Triggers: []string{"sexo", "adulto", "íntimo", "sensual", "erótico", "pornô"}},
		{Category: model.CategoryOther, Triggers: []string{}},
	}
}

// DefaultBonusRules returns the signal-driven bonus table.
func DefaultBonusRules() []BonusRule {
	minBrightness := 100.0
	return []BonusRule{
		{Category: model.CategoryAdult, RequireFaces: true, MinBrightness: &minBrightness, Bonus: 2},
	}
}

// DefaultSettings returns a fully populated configuration.
func DefaultSettings() Settings {
	s := Settings{}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills every unset option with its default value
func (s *Settings) ApplyDefaults() {
	e := &s.Engine
	if e.Stopwords == nil {
		e.Stopwords = DefaultStopwords()
	}
	if e.MinTokenLength == 0 {
		e.MinTokenLength = 2
	}
	if e.MaxKeywords == 0 {
		e.MaxKeywords = 20
	}
	if e.MinKeywordTextLength == 0 {
		e.MinKeywordTextLength = 10
	}
	if e.DefaultSearchLimit == 0 {
		e.DefaultSearchLimit = 10
	}
	if e.DefaultSimilarLimit == 0 {
		e.DefaultSimilarLimit = 5
	}
	if e.Categories == nil {
		e.Categories = DefaultCategoryRules()
	}
	if e.BonusRules == nil {
		e.BonusRules = DefaultBonusRules()
	}
	if e.Workers == 0 {
		e.Workers = 4
	}

	if s.Storage.Backend == "" {
		s.Storage.Backend = BackendMemory
	}
	if s.Storage.DataDir == "" {
		s.Storage.DataDir = "./content_data"
	}

	if s.Server.Port == "" {
		s.Server.Port = "8080"
	}
	if s.Server.MaxRequestBytes == 0 {
		s.Server.MaxRequestBytes = 32 << 20
	}

	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}
	if s.Logging.Format == "" {
		s.Logging.Format = "text"
	}
}

// Validate returns every configuration conflict found; an empty slice means the settings are usable.
func (s *Settings) Validate() []string {
	var conflicts []string
	e := s.Engine

	if e.MinTokenLength < 1 {
		conflicts = append(conflicts, "min_token_length must be at least 1")
	}
	if e.MaxKeywords < 1 {
		conflicts = append(conflicts, "max_keywords must be at least 1")
	}
	if e.MinKeywordTextLength < 0 {
		conflicts = append(conflicts, "min_keyword_text_length cannot be negative")
	}
	if e.DefaultSearchLimit < 1 {
		conflicts = append(conflicts, "default_search_limit must be at least 1")
	}
	if e.DefaultSimilarLimit < 1 {
		conflicts = append(conflicts, "default_similar_limit must be at least 1")
	}
	if e.Workers < 1 {
		conflicts = append(conflicts, "workers must be at least 1")
	}

	for _, word := range e.Stopwords {
		if strings.TrimSpace(word) == "" {
			conflicts = append(conflicts, "Stopword cannot be empty or whitespace-only")
		}
	}
	conflicts = append(conflicts, checkDuplicates("stopwords", e.Stopwords)...)

	conflicts = append(conflicts, s.validateCategoryRules()...)

	switch s.Storage.Backend {
	case BackendMemory, BackendSQLite:
	default:
		conflicts = append(conflicts, fmt.Sprintf("Unknown storage backend '%s' (must be '%s' or '%s')", s.Storage.Backend, BackendMemory, BackendSQLite))
	}

	switch strings.ToLower(s.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		conflicts = append(conflicts, "Invalid log level '"+s.Logging.Level+"'")
	}
	switch s.Logging.Format {
	case "text", "json":
	default:
		conflicts = append(conflicts, "Invalid log format '"+s.Logging.Format+"' (must be 'text' or 'json')")
	}

	return conflicts
}

// validateCategoryRules checks that the trigger table only names known categories, once each
func (s *Settings) validateCategoryRules() []string {
	var errors []string

	if len(s.Engine.Categories) == 0 {
		errors = append(errors, "At least one category rule is required")
	}

	seen := make(map[model.Category]bool)
	for _, rule := range s.Engine.Categories {
		if !rule.Category.IsValid() {
			errors = append(errors, "Unknown category '"+string(rule.Category)+"' in categories")
			continue
		}
		if seen[rule.Category] {
			errors = append(errors, "Duplicate category '"+string(rule.Category)+"' found in categories")
		}
		seen[rule.Category] = true
		for _, trigger := range rule.Triggers {
			if strings.TrimSpace(trigger) == "" {
				errors = append(errors, "Category '"+string(rule.Category)+"' has an empty trigger term")
			}
		}
	}

	for _, bonus := range s.Engine.BonusRules {
		if !seen[bonus.Category] {
			errors = append(errors, "Bonus rule references category '"+string(bonus.Category)+"' which is not in categories")
		}
		if bonus.Bonus <= 0 {
			errors = append(errors, "Bonus rule for '"+string(bonus.Category)+"' must have a positive bonus")
		}
	}

	return errors
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, values []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, value := range values {
		if seen[value] {
			errors = append(errors, "Duplicate value '"+value+"' found in "+fieldName)
		}
		seen[value] = true
	}

	return errors
}
