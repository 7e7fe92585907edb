package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/example/storefront/internal/apperr"
)

// WriteJSON encodes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError emits the standard error envelope.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{"error": message})
}

// WriteAppError maps an error's kind to an HTTP status. Infrastructure
// failures deliberately hide their detail from clients.
func WriteAppError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		WriteError(w, http.StatusBadRequest, err.Error())
	case apperr.KindNotFound:
		WriteError(w, http.StatusNotFound, err.Error())
	case apperr.KindConflict:
		WriteError(w, http.StatusConflict, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
