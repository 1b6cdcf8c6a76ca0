package validation

import (
	"fmt"
	"net/http"
	"strings"
)

// Error codes for machine-readable identification.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeInvalidID  = "INVALID_ID"
)

// FieldError is one reason a value was rejected.
type FieldError struct {
	// Field is the dotted path of the offending field; empty for the document root.
	Field string `json:"field,omitempty"`

	// Reason is the schema engine's description of the failure.
	Reason string `json:"reason"`
}

// Error is a request-level validation failure. It never reaches a store.
type Error struct {
	Message string
	Code    string
	Fields  []FieldError
}

// NewError creates a VALIDATION_ERROR with the given message.
func NewError(message string, fields ...FieldError) *Error {
	return &Error{Message: message, Code: CodeValidation, Fields: fields}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	reasons := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field != "" {
			reasons = append(reasons, f.Field+": "+f.Reason)
		} else {
			reasons = append(reasons, f.Reason)
		}
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(reasons, "; "))
}

// StatusCode returns the HTTP status code for this error.
func (e *Error) StatusCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the machine-readable code.
func (e *Error) ErrorCode() string {
	if e.Code == "" {
		return CodeValidation
	}
	return e.Code
}

// Details returns the per-field reasons, or nil when there are none.
func (e *Error) Details() map[string]any {
	if len(e.Fields) == 0 {
		return nil
	}
	return map[string]any{"errors": e.Fields}
}

// Reason flattens the error into the single string used in bulk results.
func (e *Error) Reason() string {
	return e.Message
}
