// Package errors provides standardized error types and helpers for the USJ converter.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrMissingTree indicates no parsed syntax tree was supplied
	ErrMissingTree = errors.New("missing syntax tree")
	// ErrMalformedNode indicates an expected structural child is absent
	ErrMalformedNode = errors.New("malformed node")
	// ErrTextDecode indicates a byte range is not valid UTF-8 text
	ErrTextDecode = errors.New("text decode failure")
	// ErrSerialization indicates the document model could not be encoded
	ErrSerialization = errors.New("serialization failure")
	// ErrSyntax indicates the syntax tree carries parse errors
	ErrSyntax = errors.New("syntax errors present")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// MissingTreeError is returned when a conversion has no root node to walk.
type MissingTreeError struct {
	Reason string
}

func (e *MissingTreeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("missing syntax tree: %s", e.Reason)
	}
	return "missing syntax tree"
}

func (e *MissingTreeError) Unwrap() error {
	return ErrMissingTree
}

// MalformedNodeError reports a node whose expected structural child is absent.
// It is recoverable: the converter emits a partial node and continues.
type MalformedNodeError struct {
	Kind   string // Grammar category of the node
	Field  string // Structural child that was expected
	Offset uint32 // Start byte of the node in the source
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("malformed %s node at byte %d: missing %s", e.Kind, e.Offset, e.Field)
}

func (e *MalformedNodeError) Unwrap() error {
	return ErrMalformedNode
}

// DecodeError reports a byte range that could not be decoded as text.
type DecodeError struct {
	Kind       string
	Start, End uint32
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s text in bytes [%d:%d]", e.Kind, e.Start, e.End)
}

func (e *DecodeError) Unwrap() error {
	return ErrTextDecode
}

// SerializationError wraps an encoder failure for the finished document.
type SerializationError struct {
	Format string // e.g. "JSON", "USX"
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize %s: %v", e.Format, e.Err)
}

func (e *SerializationError) Unwrap() []error {
	return []error{ErrSerialization, e.Err}
}

// SyntaxError lists the problems found in a syntax tree.
type SyntaxError struct {
	Problems []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("errors present:\n\t%s", strings.Join(e.Problems, "\n\t"))
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "syntax tree", "sid")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewMalformed creates a MalformedNodeError
func NewMalformed(kind, field string, offset uint32) *MalformedNodeError {
	return &MalformedNodeError{Kind: kind, Field: field, Offset: offset}
}

// NewDecode creates a DecodeError
func NewDecode(kind string, start, end uint32) *DecodeError {
	return &DecodeError{Kind: kind, Start: start, End: end}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
