// Package classify assigns a category and confidence to a document from trigger-term counts
// and optional auxiliary signals.
package classify

import (
	"strings"

	"github.com/gcbaptista/go-content-engine/config"
	"github.com/gcbaptista/go-content-engine/internal/tokenizer"
	"github.com/gcbaptista/go-content-engine/model"
)

// FallbackConfidence is reported when nothing in the text votes for a category.
const FallbackConfidence = 0.5

type rule struct {
	category model.Category
	triggers []string // folded
}

// Classifier scores text against an ordered trigger table.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules   []rule
	bonuses []config.BonusRule
}

// New creates a Classifier. The order of rules is the enumeration order used to break ties.
func New(rules []config.CategoryRule, bonuses []config.BonusRule) *Classifier {
	c := &Classifier{
		rules:   make([]rule, 0, len(rules)),
		bonuses: bonuses,
	}
	for _, r := range rules {
		folded := make([]string, 0, len(r.Triggers))
		for _, trigger := range r.Triggers {
			if f := tokenizer.Fold(strings.TrimSpace(trigger)); f != "" {
				folded = append(folded, f)
			}
		}
		c.rules = append(c.rules, rule{category: r.Category, triggers: folded})
	}
	return c
}

// NewFromSettings creates a Classifier from the engine settings.
func NewFromSettings(s config.EngineSettings) *Classifier {
	return New(s.Categories, s.BonusRules)
}

// Classify picks the category with the highest trigger score.
// Empty text and texts that score nothing fall back to model.CategoryOther with FallbackConfidence.
func (c *Classifier) Classify(text string, signals *model.AuxiliarySignals) model.Classification {
	scores := make(map[model.Category]int, len(c.rules))
	for _, r := range c.rules {
		scores[r.category] = 0
	}

	if strings.TrimSpace(text) == "" {
		return fallback(scores)
	}

	folded := tokenizer.Fold(text)
	for _, r := range c.rules {
		for _, trigger := range r.triggers {
			scores[r.category] += strings.Count(folded, trigger)
		}
	}

	for _, bonus := range c.bonuses {
		if bonus.Matches(signals) {
			scores[bonus.Category] += bonus.Bonus
		}
	}

	total := 0
	best := model.CategoryOther
	bestScore := 0
	for _, r := range c.rules {
		s := scores[r.category]
		total += s
		if s > bestScore {
			best = r.category
			bestScore = s
		}
	}
	if total == 0 {
		return fallback(scores)
	}

	return model.Classification{
		Category:   best,
		Confidence: model.ClampConfidence(float64(bestScore) / float64(total)),
		Scores:     scores,
	}
}

// ClassifyDocument classifies a document's primary text with its auxiliary signals.
// Documents that fail validation are returned as errors so batch callers can skip them.
func (c *Classifier) ClassifyDocument(doc *model.Document) (model.Classification, error) {
	if err := doc.Validate(); err != nil {
		return model.Classification{}, err
	}
	return c.Classify(doc.PrimaryText, doc.Signals), nil
}

func fallback(scores map[model.Category]int) model.Classification {
	return model.Classification{
		Category:   model.CategoryOther,
		Confidence: FallbackConfidence,
		Scores:     scores,
	}
}
