// Package errors provides structured error types for the Chervil engine.
//
// This package defines ChervilError, a unified error type that can represent
// reader errors, dispatch-table errors, and internal engine errors with
// enough metadata for display and programmatic handling.
package errors

import (
	"fmt"
	"strings"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassParse  ErrorClass = "parse"  // Reader/syntax errors
	ClassType   ErrorClass = "type"   // Invalid type specifiers
	ClassState  ErrorClass = "state"  // Invalid state (e.g. frozen table)
	ClassFormat ErrorClass = "format" // Partially recognized input, continuable
	ClassIndex  ErrorClass = "index"  // Out of bounds / empty-buffer misuse
	ClassConfig ErrorClass = "config" // Configuration problems
)

// ChervilError represents any error from reading or printing.
type ChervilError struct {
	Class   ErrorClass `json:"class"`           // Error category
	Code    string     `json:"code"`            // Error code (e.g., "TYPE-0001")
	Message string     `json:"message"`         // Human-readable message
	Hints   []string   `json:"hints,omitempty"` // Suggestions for fixing
	Line    int        `json:"line"`            // 1-based line (0 if unknown)
	Column  int        `json:"column"`          // 1-based column (0 if unknown)

	// Continuable marks errors that report a refused operation the caller
	// may safely ignore (the operation was a no-op) or a warning attached
	// to an operation that still completed.
	Continuable bool `json:"continuable,omitempty"`
}

// Error implements the error interface.
func (e *ChervilError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *ChervilError) String() string {
	var sb strings.Builder

	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}
	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// WithHint returns the error with an additional hint appended.
func (e *ChervilError) WithHint(hint string) *ChervilError {
	e.Hints = append(e.Hints, hint)
	return e
}

// WithPosition returns the error with a source position attached.
func (e *ChervilError) WithPosition(line, column int) *ChervilError {
	e.Line = line
	e.Column = column
	return e
}

// New creates a ChervilError with the given class, code and message.
func New(class ErrorClass, code, format string, args ...any) *ChervilError {
	return &ChervilError{
		Class:   class,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewParse creates a reader error.
func NewParse(code, format string, args ...any) *ChervilError {
	return New(ClassParse, code, format, args...)
}

// NewType creates an invalid-type-specifier error. Fatal to the call that
// raised it; the dispatch table is left unchanged.
func NewType(code, format string, args ...any) *ChervilError {
	return New(ClassType, code, format, args...)
}

// NewState creates an invalid-state error.
func NewState(code, format string, args ...any) *ChervilError {
	return New(ClassState, code, format, args...)
}

// NewFormat creates a continuable partially-recognized-input error.
func NewFormat(code, format string, args ...any) *ChervilError {
	e := New(ClassFormat, code, format, args...)
	e.Continuable = true
	return e
}

// IsContinuable reports whether err is a ChervilError the caller may elect
// to proceed past.
func IsContinuable(err error) bool {
	ce, ok := err.(*ChervilError)
	return ok && ce.Continuable
}

// IsClass reports whether err is a ChervilError of the given class.
func IsClass(err error, class ErrorClass) bool {
	ce, ok := err.(*ChervilError)
	return ok && ce.Class == class
}
