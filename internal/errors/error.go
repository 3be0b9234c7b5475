package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig Category = "config"
	CategorySource Category = "source"
	CategoryUpload Category = "upload"
	CategoryCLI    Category = "cli"
)

// DropzoneError is a structured error with a code, detail and fix hint.
type DropzoneError struct {
	// Code is a unique error identifier (e.g., "D300").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, often carrying the server's own text.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *DropzoneError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *DropzoneError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *DropzoneError) WithSuggestion(s string) *DropzoneError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *DropzoneError) WithDetail(d string) *DropzoneError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *DropzoneError) Wrap(err error) *DropzoneError {
	e.Wrapped = err
	return e
}

// New creates a DropzoneError from a registered error code.
func New(code string) *DropzoneError {
	template, ok := registry[code]
	if !ok {
		return &DropzoneError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &DropzoneError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new DropzoneError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *DropzoneError {
	return &DropzoneError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a DropzoneError.
// Errors that already are a *DropzoneError are returned unchanged.
func FromError(err error, code string) *DropzoneError {
	if err == nil {
		return nil
	}
	if de, ok := err.(*DropzoneError); ok {
		return de
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is a *DropzoneError with the given code.
func HasCode(err error, code string) bool {
	de, ok := err.(*DropzoneError)
	return ok && de.Code == code
}
