package httputil

import (
	"errors"
	"log/slog"
	"net/http"
)

// Error codes written by this package.
const (
	CodeInternal         = "INTERNAL_SERVER_ERROR"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeRouteNotFound    = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// ErrMsgInternal is the only message a client sees for an unexpected fault.
const ErrMsgInternal = "Internal server error"

// StatusCodeError is implemented by errors that know how to present
// themselves to a client.
type StatusCodeError interface {
	error
	StatusCode() int
	ErrorCode() string
	Reason() string
}

// detailer is implemented by errors that attach context to the envelope.
type detailer interface {
	Details() map[string]any
}

// APIError is an error with an explicit status, code and message.
type APIError struct {
	Status  int
	Code    string
	Message string
	Info    any
}

// NewAPIError creates an APIError without details.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// WithDetails returns a copy of e carrying details.
func (e *APIError) WithDetails(details any) *APIError {
	cp := *e
	cp.Info = details
	return &cp
}

func (e *APIError) Error() string     { return e.Code + ": " + e.Message }
func (e *APIError) StatusCode() int   { return e.Status }
func (e *APIError) ErrorCode() string { return e.Code }
func (e *APIError) Reason() string    { return e.Message }

// WriteError maps err to an error envelope.
//
// Errors implementing StatusCodeError are written as they describe
// themselves; an oversized body becomes 413; anything else is logged in full
// and answered with a generic 500 that reveals nothing about the cause.
func WriteError(w http.ResponseWriter, log *slog.Logger, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		WriteFailure(w, apiErr.Status, apiErr.Code, apiErr.Message, apiErr.Info)
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteFailure(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
			"Request body too large",
			map[string]any{"limit": tooLarge.Limit})
		return
	}

	var sc StatusCodeError
	if errors.As(err, &sc) {
		var details any
		var d detailer
		if errors.As(err, &d) {
			if m := d.Details(); len(m) > 0 {
				details = m
			}
		}
		if log != nil && sc.StatusCode() >= http.StatusInternalServerError {
			log.Error("request failed", "error", err)
		}
		WriteFailure(w, sc.StatusCode(), sc.ErrorCode(), sc.Reason(), details)
		return
	}

	if log != nil {
		log.Error("operation failed", "error", err)
	}
	WriteFailure(w, http.StatusInternalServerError, CodeInternal, ErrMsgInternal, nil)
}
