package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"boostapi/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeJSONErrorResponse(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{"error": code, "message": message})
}

// writeDomainError maps the engine's error taxonomy onto HTTP statuses:
// validation 400, conflict 409, not-found 404, illegal transition 422.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", validationErr.Error())
		return
	}

	var conflictErr *models.ConflictError
	if errors.As(err, &conflictErr) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":    "conflict",
			"message":  conflictErr.Message,
			"resource": conflictErr.Resource,
		})
		return
	}

	var notFoundErr *models.NotFoundError
	if errors.As(err, &notFoundErr) {
		writeJSONErrorResponse(w, http.StatusNotFound, "not_found", notFoundErr.Error())
		return
	}

	var transitionErr *models.StateTransitionError
	if errors.As(err, &transitionErr) {
		writeJSONErrorResponse(w, http.StatusUnprocessableEntity, "illegal_transition", transitionErr.Error())
		return
	}

	writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "something went wrong")
}
