package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"docqa/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// validation problems are 400s, a missing document is a 404, everything else
// is a 500 with the underlying message.
func respondServiceError(w http.ResponseWriter, err error) {
	var v *services.ValidationError
	switch {
	case errors.As(err, &v):
		respondError(w, http.StatusBadRequest, v.Message)
	case errors.Is(err, services.ErrDocumentNotFound):
		respondError(w, http.StatusNotFound, "Document not found.")
	default:
		log.Printf("request failed: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
