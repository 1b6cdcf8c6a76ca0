package stateful

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// title upper-cases the first letter of a resource or field name.
// Casers are stateful, so each call builds its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// NotFoundError is returned when no record with the given id exists.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// ErrorCode returns the machine-readable code, e.g. ITEM_NOT_FOUND.
func (e *NotFoundError) ErrorCode() string {
	return strings.ToUpper(e.Resource) + "_NOT_FOUND"
}

// Reason returns the client-facing message, e.g. "Item not found".
func (e *NotFoundError) Reason() string {
	return title(e.Resource) + " not found"
}

// Details returns the context attached to the error envelope.
func (e *NotFoundError) Details() map[string]any {
	return map[string]any{"id": e.ID}
}

// ConflictError is returned when a create would duplicate a unique key.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Resource, e.Field, e.Value)
}

// StatusCode returns the HTTP status code for this error.
// Duplicate keys are reported as a client error rather than 409.
func (e *ConflictError) StatusCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the machine-readable code, e.g. USERNAME_EXISTS.
func (e *ConflictError) ErrorCode() string {
	return strings.ToUpper(e.Field) + "_EXISTS"
}

// Reason returns the client-facing message, e.g. "Username already exists".
func (e *ConflictError) Reason() string {
	return title(e.Field) + " already exists"
}

// Details returns the context attached to the error envelope.
func (e *ConflictError) Details() map[string]any {
	return map[string]any{e.Field: e.Value}
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ConflictError) Hint() string {
	return fmt.Sprintf("Choose a different %s; %q is taken.", e.Field, e.Value)
}
