package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-content-engine/model"
)

// AddDocumentsHandler ingests one document or an array of documents.
// With ?async=true the batch runs as a background job and the response carries its ID.
func (api *API) AddDocumentsHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodeValidationFailed, "Failed to read request body: "+err.Error())
		return
	}

	payloads, err := DecodeDocumentPayloads(body)
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateDocuments(payloads); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	docs := make([]model.Document, len(payloads))
	for i, p := range payloads {
		docs[i] = p.ToDocument()
	}

	if async, _ := strconv.ParseBool(c.Query("async")); async {
		jobID, err := api.engine.IngestAsync(docs)
		if err != nil {
			SendJobExecutionError(c, "ingest", err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "accepted",
			"message": "Ingestion of " + strconv.Itoa(len(docs)) + " documents started",
			"job_id":  jobID,
		})
		return
	}

	report, err := api.engine.Ingest(c.Request.Context(), docs)
	if err != nil {
		api.sendEngineError(c, "ingest documents", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "completed",
		"report": report,
	})
}

// DecodeDocumentPayloads accepts either a single JSON object or an array of objects.
func DecodeDocumentPayloads(body []byte) ([]DocumentPayload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var payloads []DocumentPayload
		if err := json.Unmarshal(trimmed, &payloads); err != nil {
			return nil, err
		}
		return payloads, nil
	}

	var payload DocumentPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, err
	}
	return []DocumentPayload{payload}, nil
}

// GetDocumentHandler returns one stored document.
func (api *API) GetDocumentHandler(c *gin.Context) {
	documentID := c.Param("documentId")
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	doc, err := api.engine.Document(c.Request.Context(), documentID)
	if err != nil {
		api.sendEngineError(c, "get document", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// SimilarDocumentsHandler returns documents related to one document. ?limit bounds the result.
func (api *API) SimilarDocumentsHandler(c *gin.Context) {
	documentID := c.Param("documentId")
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	hits, err := api.engine.FindSimilar(c.Request.Context(), documentID, limit)
	if err != nil {
		api.sendEngineError(c, "find similar documents", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"document_id": documentID,
		"hits":        hits,
		"total":       len(hits),
	})
}

// RebuildHandler rebuilds the corpus index, in the background with ?async=true.
func (api *API) RebuildHandler(c *gin.Context) {
	if async, _ := strconv.ParseBool(c.Query("async")); async {
		jobID, err := api.engine.RebuildAsync()
		if err != nil {
			SendJobExecutionError(c, "rebuild", err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "job_id": jobID})
		return
	}

	stats, err := api.engine.Rebuild(c.Request.Context())
	if err != nil {
		api.sendEngineError(c, "rebuild index", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed", "stats": stats})
}

// ReprocessHandler re-enriches every stored document as a background job.
func (api *API) ReprocessHandler(c *gin.Context) {
	jobID, err := api.engine.ReprocessAsync()
	if err != nil {
		SendJobExecutionError(c, "reprocess", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "job_id": jobID})
}

// queryLimit reads the optional ?limit parameter, answering 400 itself when it is invalid.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		result := &ValidationResult{Valid: true}
		result.AddError("limit", "Limit must be an integer")
		SendStructuredValidationError(c, result)
		return 0, false
	}
	if result := ValidateLimit(limit); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return 0, false
	}
	return limit, true
}
