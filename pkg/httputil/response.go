// Package httputil writes every response in the shared JSON envelope.
//
// Success:
//
//	{"status": "success", "data": ..., "message": "..."}
//
// Error:
//
//	{"status": "error", "message": "...", "error_code": "...", "details": {...}}
package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Success is the body of every 2xx response that carries content.
type Success struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Failure is the body of every error response.
type Failure struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// WriteSuccess writes a success envelope. An empty message is omitted.
func WriteSuccess(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, Success{Status: StatusSuccess, Data: data, Message: message})
}

// WriteOK writes a 200 success envelope.
func WriteOK(w http.ResponseWriter, data any, message string) {
	WriteSuccess(w, http.StatusOK, data, message)
}

// WriteCreated writes a 201 success envelope.
func WriteCreated(w http.ResponseWriter, data any, message string) {
	WriteSuccess(w, http.StatusCreated, data, message)
}

// WriteNoContent writes a 204 No Content response. HTTP forbids a body here.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteFailure writes an error envelope. A nil details value is omitted.
func WriteFailure(w http.ResponseWriter, status int, errCode, message string, details any) {
	WriteJSON(w, status, Failure{
		Status:    StatusError,
		Message:   message,
		ErrorCode: errCode,
		Details:   details,
	})
}
