package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing          ErrorType = "PARSING"
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeConfig           ErrorType = "CONFIG"
	ErrTypeStorage          ErrorType = "STORAGE"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewInsufficientDataError creates an insufficient-data error.
// Statistical tests return this instead of a meaningless statistic when a
// group or table degenerates below the minimum usable size.
func NewInsufficientDataError(message string) *AppError {
	return NewAppError(ErrTypeInsufficientData, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// IsInsufficientData reports whether err is an insufficient-data AppError,
// unwrapping as needed.
func IsInsufficientData(err error) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == ErrTypeInsufficientData
	}
	return false
}
