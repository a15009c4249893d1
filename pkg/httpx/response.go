package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Envelope is the uniform body of every API response.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	// Code is a stable machine readable identifier (e.g. "not_found").
	Code string `json:"code"`

	// Message is a human readable description.
	Message string `json:"message"`

	// Details holds per-field validation messages (field name: reason).
	Details map[string]string `json:"details,omitempty"`

	// RetryAfter is the number of seconds to wait before retrying, when known.
	RetryAfter int `json:"retry_after,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a successful envelope carrying data.
func WriteData(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, Envelope{Success: true, Data: data})
}

// WriteError writes a failed envelope.
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	WriteJSON(w, code, Envelope{Error: &ErrorBody{Code: errCode, Message: message}})
}

// WriteErrorBody writes a failed envelope with a fully populated body. A
// positive RetryAfter is mirrored into the Retry-After header.
func WriteErrorBody(w http.ResponseWriter, code int, body ErrorBody) {
	if body.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(body.RetryAfter))
	}
	WriteJSON(w, code, Envelope{Error: &body})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
