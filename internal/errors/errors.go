// Package errors provides a lightweight structured error type for
// category-based classification across the conversion pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a conversion error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryGit     ErrorCategory = "git"
	CategoryPandoc  ErrorCategory = "pandoc"
	CategoryNetwork ErrorCategory = "network"

	// Build and processing errors
	CategoryDiscovery  ErrorCategory = "discovery"
	CategoryConvert    ErrorCategory = "convert"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryState    ErrorCategory = "state"
	CategoryDaemon   ErrorCategory = "daemon"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the release build
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// ConvertError is a structured error with category, severity, and context
type ConvertError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ConvertError
type ContextFields map[string]any

// Error implements the error interface
func (e *ConvertError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ConvertError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *ConvertError) WithContext(key string, value any) *ConvertError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ConvertError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ConvertError {
	return &ConvertError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ConvertError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ConvertError {
	return &ConvertError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}
