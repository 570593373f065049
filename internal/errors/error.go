package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryArgument  Category = "argument"
	CategoryPlacement Category = "placement"
	CategoryInternal  Category = "internal"
	CategoryLifecycle Category = "lifecycle"
	CategoryEvent     Category = "event"
	CategoryScheduler Category = "scheduler"
	CategoryConfig    Category = "config"
)

// RelaxError is a structured error with a registered code.
type RelaxError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (argument, lifecycle, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail describes the concrete offence (which index, which name).
	Detail string

	// Explanation is the registered long-form description of the code.
	Explanation string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RelaxError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RelaxError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a RelaxError with the same code.
func (e *RelaxError) Is(target error) bool {
	t, ok := target.(*RelaxError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithDetail adds the concrete offence to the error.
func (e *RelaxError) WithDetail(d string) *RelaxError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *RelaxError) WithDetailf(format string, args ...any) *RelaxError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RelaxError) WithSuggestion(s string) *RelaxError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *RelaxError) Wrap(err error) *RelaxError {
	e.Wrapped = err
	return e
}

// New creates a RelaxError from a registered error code.
func New(code string) *RelaxError {
	template, ok := registry[code]
	if !ok {
		return &RelaxError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RelaxError{
		Code:        code,
		Category:    template.Category,
		Message:     template.Message,
		Explanation: template.Detail,
	}
}

// Newf creates a code-less RelaxError with a formatted message.
func Newf(category Category, format string, args ...any) *RelaxError {
	return &RelaxError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RelaxError.
func FromError(err error, code string) *RelaxError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RelaxError); ok {
		return re
	}
	return New(code).Wrap(err)
}
