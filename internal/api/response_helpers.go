// internal/api/response_helpers.go
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/memlife/memlife/internal/errors"
)

// APIResponse is the uniform JSON envelope for every endpoint.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError carries the machine-readable error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseHelper centralizes response formatting.
type ResponseHelper struct{}

// NewResponseHelper creates a response helper.
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// Success writes a 200 with the standard envelope.
func (rh *ResponseHelper) Success(c *gin.Context, data interface{}, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
	if len(message) > 0 {
		response.Message = message[0]
	}
	c.JSON(http.StatusOK, response)
}

// Created writes a 201 with the standard envelope.
func (rh *ResponseHelper) Created(c *gin.Context, data interface{}, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
	if len(message) > 0 {
		response.Message = message[0]
	}
	c.JSON(http.StatusCreated, response)
}

// Error writes an error response with the given status.
func (rh *ResponseHelper) Error(c *gin.Context, statusCode int, errorCode, message string) {
	c.JSON(statusCode, &APIResponse{
		Success:   false,
		Error:     &APIError{Code: errorCode, Message: message},
		Timestamp: time.Now(),
	})
}

// BadRequest writes a 400 validation error.
func (rh *ResponseHelper) BadRequest(c *gin.Context, message string) {
	rh.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// Unauthorized writes a 401.
func (rh *ResponseHelper) Unauthorized(c *gin.Context, message string) {
	rh.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// FromError maps a service error onto the right HTTP status. Unknown
// error types become a 500.
func (rh *ResponseHelper) FromError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		rh.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidationError(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFoundError(err):
		status = http.StatusNotFound
	case apperrors.IsNoUserError(err), apperrors.IsUnauthorizedError(err):
		status = http.StatusUnauthorized
	case apperrors.IsOutOfRangeError(err):
		status = http.StatusBadRequest
	case apperrors.IsConflictError(err):
		status = http.StatusConflict
	case apperrors.IsLLMFailureError(err):
		status = http.StatusBadGateway
	case apperrors.IsPersistenceError(err):
		status = http.StatusInternalServerError
	}

	rh.Error(c, status, appErr.Code, appErr.Message)
}
