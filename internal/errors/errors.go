// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeNoUser       ErrorType = "no_user"
	ErrorTypeOutOfRange   ErrorType = "out_of_range"
	ErrorTypeLLMFailure   ErrorType = "llm_failure"
	ErrorTypePersistence  ErrorType = "persistence_failure"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeConflict     ErrorType = "conflict"
)

// AppError is the application error carrying a type, a message and the
// wrapped cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError of the given type.
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
		Code:    generateErrorCode(errType),
	}
}

// NewValidationError marks a malformed or missing input.
func NewValidationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeValidation, message, originalError)
}

// NewNotFoundError marks a missing resource.
func NewNotFoundError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, originalError)
}

// NewNoUserError marks a persistence attempt without a user identity.
// This is a hard precondition failure; the operation is aborted.
func NewNoUserError(message string) *AppError {
	return NewAppError(ErrorTypeNoUser, message, nil)
}

// NewOutOfRangeError marks an invalid navigation or edit target.
func NewOutOfRangeError(message string) *AppError {
	return NewAppError(ErrorTypeOutOfRange, message, nil)
}

// NewLLMFailureError marks a failed completion call. Callers recover
// locally by substituting the fixed fallback reply.
func NewLLMFailureError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeLLMFailure, message, originalError)
}

// NewPersistenceError marks a failed save. In-memory state stays valid.
func NewPersistenceError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypePersistence, message, originalError)
}

// NewUnauthorizedError marks a rejected credential or token.
func NewUnauthorizedError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeUnauthorized, message, originalError)
}

// NewConflictError marks a uniqueness conflict such as a duplicate
// account email.
func NewConflictError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeConflict, message, originalError)
}

func isType(err error, t ErrorType) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == t
	}
	return false
}

func IsValidationError(err error) bool   { return isType(err, ErrorTypeValidation) }
func IsNotFoundError(err error) bool     { return isType(err, ErrorTypeNotFound) }
func IsNoUserError(err error) bool       { return isType(err, ErrorTypeNoUser) }
func IsOutOfRangeError(err error) bool   { return isType(err, ErrorTypeOutOfRange) }
func IsLLMFailureError(err error) bool   { return isType(err, ErrorTypeLLMFailure) }
func IsPersistenceError(err error) bool  { return isType(err, ErrorTypePersistence) }
func IsUnauthorizedError(err error) bool { return isType(err, ErrorTypeUnauthorized) }
func IsConflictError(err error) bool     { return isType(err, ErrorTypeConflict) }

func generateErrorCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeNoUser:
		return "NO_USER"
	case ErrorTypeOutOfRange:
		return "OUT_OF_RANGE"
	case ErrorTypeLLMFailure:
		return "LLM_FAILURE"
	case ErrorTypePersistence:
		return "PERSISTENCE_FAILURE"
	case ErrorTypeUnauthorized:
		return "UNAUTHORIZED"
	case ErrorTypeConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN_ERROR"
	}
}

// WrapError wraps an existing error, preserving an AppError's type when
// it already carries one.
func WrapError(err error, message string, errType ErrorType) error {
	if err == nil {
		return nil
	}

	var appError *AppError
	if errors.As(err, &appError) {
		return &AppError{
			Type:    appError.Type,
			Message: fmt.Sprintf("%s: %s", message, appError.Message),
			Err:     appError,
			Code:    appError.Code,
		}
	}

	return NewAppError(errType, message, err)
}
