package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAnalyticsHandler returns aggregate statistics over the recorded searches
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.SearchStats())
}

// HealthCheckHandler reports liveness and whether the corpus index is ready for queries
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "go-content-engine",
		"index_ready": api.engine.Ready(),
		"timestamp":   strconv.FormatInt(time.Now().Unix(), 10),
	})
}

// GlobalSummaryHandler aggregates the whole corpus
func (api *API) GlobalSummaryHandler(c *gin.Context) {
	summary, err := api.engine.GlobalSummary(c.Request.Context())
	if err != nil {
		api.sendEngineError(c, "global summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DirectorySummaryHandler aggregates one directory, named by ?directory=
func (api *API) DirectorySummaryHandler(c *gin.Context) {
	directory := c.Query("directory")
	if strings.TrimSpace(directory) == "" {
		result := &ValidationResult{Valid: true}
		result.AddError("directory", "Directory is required")
		SendStructuredValidationError(c, result)
		return
	}

	summary, err := api.engine.DirectorySummary(c.Request.Context(), directory)
	if err != nil {
		api.sendEngineError(c, "directory summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DirectoryRollupsHandler returns one aggregate row per directory
func (api *API) DirectoryRollupsHandler(c *gin.Context) {
	rollups, err := api.engine.DirectoryRollups(c.Request.Context())
	if err != nil {
		api.sendEngineError(c, "directory rollups", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"directories": rollups,
		"total":       len(rollups),
	})
}
