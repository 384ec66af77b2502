// Package blogerr provides the structured error type used across the build
// pipeline for category-based classification and CLI exit-code mapping.
package blogerr

import (
	"errors"
	"fmt"
)

// Category classifies a build error for reporting and exit-code mapping.
type Category string

const (
	// User-facing configuration and input errors
	CategoryConfig      Category = "config"
	CategoryFrontMatter Category = "frontmatter"
	CategoryContent     Category = "content"
	CategoryIndex       Category = "index"

	// Build and output errors
	CategoryBuild      Category = "build"
	CategoryRender     Category = "render"
	CategoryFileSystem Category = "filesystem"

	// Runtime errors (preview server, watcher)
	CategoryServer   Category = "server"
	CategoryInternal Category = "internal"
)

// Severity indicates how critical an error is.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Aborts the build
	SeverityError   Severity = "error"   // Error, but not fatal
	SeverityWarning Severity = "warning" // Continues with degraded output
)

// Error is a structured error with category, severity, and context fields.
// Every parse or index failure is terminal for the build; the severity mostly
// distinguishes build aborts from degraded preview-server conditions.
type Error struct {
	Category Category      `json:"category"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for an Error.
type ContextFields map[string]any

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds a context field to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// Path returns the offending file path recorded on the error, if any.
func (e *Error) Path() string {
	if e.Context == nil {
		return ""
	}
	if p, ok := e.Context["path"].(string); ok {
		return p
	}
	return ""
}

// New creates a new Error.
func New(category Category, severity Severity, message string) *Error {
	return &Error{Category: category, Severity: severity, Message: message}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(err error, category Category, severity Severity, message string) *Error {
	return &Error{Category: category, Severity: severity, Message: message, Cause: err}
}

// IsCategory checks whether err (or anything it wraps) belongs to a category.
func IsCategory(err error, category Category) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or CategoryInternal if the
// error is not a structured Error.
func GetCategory(err error) Category {
	var be *Error
	if errors.As(err, &be) {
		return be.Category
	}
	return CategoryInternal
}
