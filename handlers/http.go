package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps the engine error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a storage failure: the transaction has
// already rolled back, so the caller may safely retry the whole call.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMaterialNotFound), errors.Is(err, ErrRequestNotFound):
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": err.Error()})
	case errors.Is(err, ErrEditConflict):
		writeJSON(w, http.StatusConflict, map[string]interface{}{"success": false, "error": err.Error()})
	case errors.Is(err, ErrInsufficientQuantity), errors.Is(err, ErrSameProject),
		errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrRequestNotPending):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": err.Error()})
	default:
		log.Printf("❌ Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "internal server error"})
	}
}
