package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindAuth         Kind = "auth"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindDuplicate    Kind = "duplicate"
	KindUnclassified Kind = "unclassified"
)

// AppError is an error that knows which HTTP status it maps to.
type AppError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindAuth, Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// Duplicate is a unique-constraint violation. It is reported as 400.
func Duplicate(message string) *AppError {
	return &AppError{Kind: KindDuplicate, Status: http.StatusBadRequest, Message: message}
}

// Internal wraps a store or infrastructure failure. The underlying message
// is exposed, with "Server Error" as fallback.
func Internal(err error) *AppError {
	msg := "Server Error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &AppError{Kind: KindUnclassified, Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// FromError normalises any error into an *AppError.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
