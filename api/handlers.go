package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-content-engine/internal/logging"
	"github.com/gcbaptista/go-content-engine/services"
)

// API holds dependencies for API handlers, primarily the content engine.
type API struct {
	engine services.ContentEngine
	logger *slog.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.ContentEngine, logger *slog.Logger) *API {
	return &API{
		engine: engine,
		logger: logging.OrDiscard(logger).With("component", "api"),
	}
}

// SetupRoutes defines all the API routes for the content engine.
func SetupRoutes(router *gin.Engine, engine services.ContentEngine, logger *slog.Logger) {
	apiHandler := NewAPI(engine, logger)

	router.Use(RequestIDMiddleware())

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Search analytics route
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)              // List jobs, optionally by status
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
	}

	// Document routes
	docRoutes := router.Group("/documents")
	{
		docRoutes.PUT("", apiHandler.AddDocumentsHandler)                         // Ingest documents (?async=true runs as a job)
		docRoutes.GET("/:documentId", apiHandler.GetDocumentHandler)              // Get specific document
		docRoutes.GET("/:documentId/similar", apiHandler.SimilarDocumentsHandler) // Related documents by keyword overlap
	}

	// Corpus index maintenance
	indexRoutes := router.Group("/index")
	{
		indexRoutes.POST("/_rebuild", apiHandler.RebuildHandler)     // Rebuild the corpus snapshot
		indexRoutes.POST("/_reprocess", apiHandler.ReprocessHandler) // Re-enrich stored documents
	}

	// Search routes
	searchRoutes := router.Group("/_search")
	{
		searchRoutes.POST("", apiHandler.SearchHandler)
		searchRoutes.POST("/keywords", apiHandler.KeywordSearchHandler)
		searchRoutes.POST("/advanced", apiHandler.AdvancedSearchHandler)
	}

	// Category routes
	router.GET("/categories", apiHandler.ListCategoriesHandler)
	router.GET("/categories/:category/documents", apiHandler.CategoryDocumentsHandler)
	router.POST("/_classify", apiHandler.ClassifyHandler)

	// Summary routes
	summaryRoutes := router.Group("/summary")
	{
		summaryRoutes.GET("", apiHandler.GlobalSummaryHandler)
		summaryRoutes.GET("/directory", apiHandler.DirectorySummaryHandler)
		summaryRoutes.GET("/directories", apiHandler.DirectoryRollupsHandler)
	}
}
