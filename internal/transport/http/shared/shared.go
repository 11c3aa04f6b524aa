// Package shared holds the JSON envelope helpers used by every handler.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "apotheca/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope. Message carries the caller-safe
// text from the domain error; internal causes never reach it.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Plain
// errors map to a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	var de dErrors.Error
	if !errors.As(err, &de) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: string(dErrors.CodeInternal)})
		return
	}
	WriteJSON(w, dErrors.ToHTTPStatus(de.Code), ErrorResponse{
		Error:   string(de.Code),
		Message: de.Message,
	})
}
