package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApiError carries an HTTP status and a machine-readable code alongside the
// human-readable message.
type ApiError struct {
	StatusCode int
	Message    string
	ErrorCode  string
}

// Error implements the error interface.
func (e *ApiError) Error() string {
	return e.Message
}

// NewApiError creates an API error.
func NewApiError(message string, statusCode int, errorCode string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		ErrorCode:  errorCode,
	}
}

// CreateValidationError reports malformed or out-of-range input.
func CreateValidationError(message string) *ApiError {
	return NewApiError(message, http.StatusBadRequest, "VALIDATION_ERROR")
}

// CreateNotFoundError reports a missing resource.
func CreateNotFoundError(resource string) *ApiError {
	return NewApiError(resource+" not found", http.StatusNotFound, "RESOURCE_NOT_FOUND")
}

// CreatePreconditionFailedError reports an operation that is invalid for the
// entity's current state, as opposed to bad input.
func CreatePreconditionFailedError(message string) *ApiError {
	return NewApiError(message, http.StatusPreconditionFailed, "PRECONDITION_FAILED")
}

// CreateConflictError reports a unique-constraint violation. The caller may
// retry the creation.
func CreateConflictError(message string) *ApiError {
	return NewApiError(message, http.StatusConflict, "CONFLICT")
}

// CreateUnauthorizedError reports a missing or invalid credential.
func CreateUnauthorizedError() *ApiError {
	return NewApiError("unauthorized", http.StatusUnauthorized, "UNAUTHORIZED")
}

// CreateForbiddenError reports insufficient permissions.
func CreateForbiddenError() *ApiError {
	return NewApiError("insufficient permissions", http.StatusForbidden, "FORBIDDEN")
}

// CreateBadRequestError reports a generic bad request.
func CreateBadRequestError(message string) *ApiError {
	return NewApiError(message, http.StatusBadRequest, "BAD_REQUEST")
}

// CreateInternalError wraps an unexpected failure. The underlying cause is
// logged, the caller only sees an opaque message.
func CreateInternalError() *ApiError {
	return NewApiError("internal server error", http.StatusInternalServerError, "INTERNAL_ERROR")
}

// HandleError logs the error and writes the appropriate response.
func HandleError(c *gin.Context, err error) {
	if c == nil {
		return
	}
	errorMessage := err.Error()
	Logger.Error().
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg("api error: " + errorMessage)

	if apiErr, ok := err.(*ApiError); ok {
		response := gin.H{"success": false, "error": apiErr.Message}
		if apiErr.ErrorCode != "" {
			response["code"] = apiErr.ErrorCode
		}
		c.JSON(apiErr.StatusCode, response)
		return
	}

	// unexpected error: opaque message to the caller
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "internal server error",
	})
}

// SuccessResponse writes a success envelope.
func SuccessResponse(c *gin.Context, data interface{}, message string, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := gin.H{"success": true}
	if data != nil {
		response["data"] = data
	}
	if message != "" {
		response["message"] = message
	}

	c.JSON(code, response)
}

// ErrorResponse writes an error envelope.
func ErrorResponse(c *gin.Context, message string, statusCode int) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}

// AppError is an error with an HTTP status and an optional wrapped cause.
type AppError struct {
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(message string, statusCode int, err error) *AppError {
	return &AppError{
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}
