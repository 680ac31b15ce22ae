package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrorCodeRankerNotFound       ErrorCode = "RANKER_NOT_FOUND"
	ErrorCodeRankerExists         ErrorCode = "RANKER_ALREADY_EXISTS"
	ErrorCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
	ErrorCodeMissingScore         ErrorCode = "MISSING_SCORE"
	ErrorCodeInvalidJSON          ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery         ErrorCode = "INVALID_QUERY"

	// Server Error Codes (5xx)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeRankFailed    ErrorCode = "RANK_FAILED"
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
	c.JSON(statusCode, APIErrorResponse(code, message, details...))
}

// SendValidationError sends a validation error with structured details
func SendValidationError(c *gin.Context, result *ValidationResult) {
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

// SendRankerNotFoundError sends a standardized ranker not found error
func SendRankerNotFoundError(c *gin.Context, rankerName string) {
	SendError(c, http.StatusNotFound, ErrorCodeRankerNotFound,
		"Ranker '"+rankerName+"' not found")
}

// SendRankerExistsError sends a standardized ranker already exists error
func SendRankerExistsError(c *gin.Context, rankerName string) {
	SendError(c, http.StatusConflict, ErrorCodeRankerExists,
		"Ranker '"+rankerName+"' already exists")
}

// SendInvalidConfigurationError sends a standardized invalid configuration error
func SendInvalidConfigurationError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidConfiguration, err.Error())
}

// SendMissingScoreError surfaces a missing metric score on a candidate match
func SendMissingScoreError(c *gin.Context, err error) {
	SendError(c, http.StatusUnprocessableEntity, ErrorCodeMissingScore, err.Error())
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendRankError sends a standardized rank failure error
func SendRankError(c *gin.Context, rankerName string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeRankFailed,
		"Rank failed on ranker '"+rankerName+"': "+err.Error())
}
