package api

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-content-engine/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrorCodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"

	// Server Error Codes (5xx)
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeStoreAccessFailed  ErrorCode = "STORE_ACCESS_FAILED"
	ErrorCodeIndexUnavailable   ErrorCode = "INDEX_UNAVAILABLE"
	ErrorCodeJobExecutionFailed ErrorCode = "JOB_EXECUTION_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendEngineError maps an engine error onto its status code and error code.
func SendEngineError(c *gin.Context, operation string, err error) {
	status, code := classifyError(err)
	SendError(c, status, code, operation+": "+err.Error())
}

// sendEngineError is SendEngineError plus a log line for server-side failures.
func (api *API) sendEngineError(c *gin.Context, operation string, err error) {
	if status, _ := classifyError(err); status >= http.StatusInternalServerError {
		api.logger.Error("request failed", "operation", operation, "error", err, "request_id", c.GetString(requestIDKey))
	}
	SendEngineError(c, operation, err)
}

func classifyError(err error) (int, ErrorCode) {
	switch {
	case stderrors.Is(err, errors.ErrIndexUnavailable):
		return http.StatusServiceUnavailable, ErrorCodeIndexUnavailable
	case stderrors.Is(err, errors.ErrDocumentNotFound):
		return http.StatusNotFound, ErrorCodeDocumentNotFound
	case stderrors.Is(err, errors.ErrJobNotFound):
		return http.StatusNotFound, ErrorCodeJobNotFound
	case stderrors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest, ErrorCodeValidationFailed
	case stderrors.Is(err, errors.ErrStoreAccess):
		return http.StatusBadGateway, ErrorCodeStoreAccessFailed
	default:
		return http.StatusInternalServerError, ErrorCodeInternalError
	}
}

// SendStructuredValidationError sends a validation error with one detail per offending field
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendJobExecutionError sends a standardized job execution error
func SendJobExecutionError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeJobExecutionFailed,
		"Failed to start "+operation+" job: "+err.Error())
}
