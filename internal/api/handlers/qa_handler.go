package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"docqa/internal/models"
)

// Asker is the slice of the QA service the handler needs.
type Asker interface {
	Ask(ctx context.Context, question string) (*models.Answer, error)
}

type QAHandler struct {
	qa Asker
}

func NewQAHandler(qa Asker) *QAHandler {
	return &QAHandler{qa: qa}
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *QAHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Please provide a valid question.")
		return
	}

	answer, err := h.qa.Ask(r.Context(), req.Question)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, answer)
}
