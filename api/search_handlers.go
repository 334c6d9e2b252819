package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-content-engine/model"
)

// SearchRequest is the body of a free-text search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// KeywordSearchRequest is the body of a keyword search.
type KeywordSearchRequest struct {
	Keywords []string `json:"keywords"`
	Exact    bool     `json:"exact,omitempty"`
}

// ClassifyRequest is the body of an ad-hoc classification.
type ClassifyRequest struct {
	Text             string         `json:"text"`
	AuxiliarySignals map[string]any `json:"auxiliary_signals,omitempty"`
}

// SearchHandler ranks documents by similarity to a free-text query.
func (api *API) SearchHandler(c *gin.Context) {
	start := time.Now()
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateLimit(req.Limit); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	hits, err := api.engine.Search(req.Query, req.Limit)
	if err != nil {
		api.sendEngineError(c, "search", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hits":  hits,
		"total": len(hits),
		"took":  time.Since(start).Milliseconds(),
	})
}

// KeywordSearchHandler scores documents against a keyword list.
func (api *API) KeywordSearchHandler(c *gin.Context) {
	start := time.Now()
	var req KeywordSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateKeywords(req.Keywords); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	hits, report, err := api.engine.KeywordSearch(req.Keywords, req.Exact)
	if err != nil {
		api.sendEngineError(c, "keyword search", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hits":    hits,
		"total":   len(hits),
		"skipped": report.Skipped,
		"took":    time.Since(start).Milliseconds(),
	})
}

// AdvancedSearchHandler combines free-text search with category and duration filters.
func (api *API) AdvancedSearchHandler(c *gin.Context) {
	start := time.Now()
	var req model.AdvancedQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateAdvancedQuery(&req); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	hits, err := api.engine.AdvancedSearch(req)
	if err != nil {
		api.sendEngineError(c, "advanced search", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hits":  hits,
		"total": len(hits),
		"took":  time.Since(start).Milliseconds(),
	})
}

// ListCategoriesHandler returns the closed category set in enumeration order.
func (api *API) ListCategoriesHandler(c *gin.Context) {
	categories := model.AllCategories()
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}

// CategoryDocumentsHandler lists the documents of one category, highest confidence first.
func (api *API) CategoryDocumentsHandler(c *gin.Context) {
	category, result := ValidateCategory(c.Param("category"))
	if result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	hits, err := api.engine.SearchByCategory(c.Request.Context(), category)
	if err != nil {
		api.sendEngineError(c, "search by category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"hits":     hits,
		"total":    len(hits),
	})
}

// ClassifyHandler classifies a text without storing anything.
func (api *API) ClassifyHandler(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	signals, err := model.ParseSignals(req.AuxiliarySignals)
	if err != nil {
		result := &ValidationResult{Valid: true}
		result.AddError("auxiliary_signals", err.Error())
		SendStructuredValidationError(c, result)
		return
	}

	c.JSON(http.StatusOK, api.engine.Classify(req.Text, signals))
}
