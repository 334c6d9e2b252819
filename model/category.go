package model

import "strings"

// Category is a member of the fixed, closed set of content categories.
type Category string

// Enumeration order matters: the classifier breaks score ties in favour of the category listed first.
const (
	CategoryEducation     Category = "educacao"
	CategoryEntertainment Category = "entretenimento"
	CategoryNews          Category = "noticias"
	CategorySports        Category = "esportes"
	CategoryTechnology    Category = "tecnologia"
	CategoryCooking       Category = "culinaria"
	CategoryMusic         Category = "musica"
	CategoryGaming        Category = "gaming"
	CategoryTutorial      Category = "tutorial"
	CategoryDocumentary   Category = "documentario"
	CategoryAdult         Category = "adulto"
	CategoryOther         Category = "other"
)

var allCategories = []Category{
	CategoryEducation,
	CategoryEntertainment,
	CategoryNews,
	CategorySports,
	CategoryTechnology,
	CategoryCooking,
	CategoryMusic,
	CategoryGaming,
	CategoryTutorial,
	CategoryDocumentary,
	CategoryAdult,
	CategoryOther,
}

// legacyAliases maps labels found in older records onto the closed set.
var legacyAliases = map[string]Category{
	"outros":    CategoryOther,
	"educação":  CategoryEducation,
	"notícias":  CategoryNews,
	"culinária": CategoryCooking,
	"música":    CategoryMusic,
}

// AllCategories returns the closed category set in enumeration order.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// IsValid reports whether c belongs to the closed set.
func (c Category) IsValid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalises a free-form label into the closed set. Unknown or empty labels become CategoryOther.
func ParseCategory(s string) Category {
	label := strings.ToLower(strings.TrimSpace(s))
	if c := Category(label); c.IsValid() {
		return c
	}
	if c, ok := legacyAliases[label]; ok {
		return c
	}
	return CategoryOther
}

// LookupCategory is like ParseCategory but reports whether the label was recognised.
func LookupCategory(s string) (Category, bool) {
	label := strings.ToLower(strings.TrimSpace(s))
	if c := Category(label); c.IsValid() {
		return c, true
	}
	c, ok := legacyAliases[label]
	return c, ok
}

// ClampConfidence forces v into [0,1]; NaN becomes 0.
func ClampConfidence(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
