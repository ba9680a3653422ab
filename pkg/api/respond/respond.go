// Package respond writes JSON responses and errors in the shape every
// endpoint shares.
package respond

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the payload of every non-2xx JSON response.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}, tagging it with the request ID when the
// middleware set one.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg, RequestID: w.Header().Get("X-Request-ID")})
}
