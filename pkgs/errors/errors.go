// Package errors defines the typed errors raised at the edges of dockerdef:
// reading input, parsing positions from the command line, and serving
// requests for documents the host never opened. The parser and resolver
// never return errors; their only negative answer is "not found".
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error types
const (
	ErrInputRead       = "INPUT_READ_ERROR"
	ErrFileNotFound    = "FILE_NOT_FOUND"
	ErrInvalidPosition = "INVALID_POSITION"
	ErrUnknownDocument = "UNKNOWN_DOCUMENT"
	ErrNoDefinition    = "NO_DEFINITION"
)

// DockerdefError is a structured error with a type and context
type DockerdefError struct {
	Type    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *DockerdefError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows error unwrapping
func (e *DockerdefError) Unwrap() error {
	return e.Cause
}

// New creates a DockerdefError
func New(errorType, message string) *DockerdefError {
	return &DockerdefError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Wrap creates a DockerdefError around cause
func Wrap(errorType, message string, cause error) *DockerdefError {
	e := New(errorType, message)
	e.Cause = cause
	return e
}

// WithContext adds context information to the error
func (e *DockerdefError) WithContext(key string, value interface{}) *DockerdefError {
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *DockerdefError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// NewInputError reports a failure to read a Dockerfile
func NewInputError(path string, cause error) *DockerdefError {
	return Wrap(ErrInputRead, fmt.Sprintf("cannot read '%s'", path), cause).
		WithContext("path", path)
}

// NewPositionError reports a position argument that cannot be used
func NewPositionError(raw, reason string) *DockerdefError {
	return New(ErrInvalidPosition, fmt.Sprintf("invalid position '%s': %s", raw, reason)).
		WithContext("position", raw)
}

// NewUnknownDocumentError reports a request for a document that is not open
func NewUnknownDocumentError(uri string) *DockerdefError {
	return New(ErrUnknownDocument, fmt.Sprintf("document '%s' is not open", uri)).
		WithContext("uri", uri)
}

// NewNoDefinitionError reports a symbol without a visible definition
func NewNoDefinitionError(symbol string, suggestions []string) *DockerdefError {
	msg := "no definition found"
	if symbol != "" {
		msg = fmt.Sprintf("no definition found for '%s'", symbol)
	}
	return New(ErrNoDefinition, msg).
		WithContext("symbol", symbol).
		WithContext("suggestions", suggestions)
}

// IsErrorType checks whether err, or anything it wraps, has errorType
func IsErrorType(err error, errorType string) bool {
	var e *DockerdefError
	if stderrors.As(err, &e) {
		return e.Type == errorType
	}
	return false
}
