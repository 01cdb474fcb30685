package models

import (
	"errors"
	"fmt"
)

// Error codes used across the application.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeUnavailable   = "UNAVAILABLE"
	CodeSendTransient = "SEND_TRANSIENT"
	CodeSendPermanent = "SEND_PERMANENT"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewUnavailableError wraps a storage/queue/channel connectivity failure.
func NewUnavailableError(what string, err error) *AppError {
	return &AppError{
		Code:    CodeUnavailable,
		Message: fmt.Sprintf("%s is unavailable", what),
		Err:     err,
	}
}

// NewTransientSendError marks a delivery failure worth retrying with backoff.
func NewTransientSendError(err error) *AppError {
	return &AppError{
		Code:    CodeSendTransient,
		Message: "transient send failure",
		Err:     err,
	}
}

// NewPermanentSendError marks a delivery failure that must not be retried.
func NewPermanentSendError(err error) *AppError {
	return &AppError{
		Code:    CodeSendPermanent,
		Message: "permanent send failure",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err represents a missing entity.
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
