package handlers

import (
	"context"
	"net/http"

	"docqa/internal/models"
)

// Checker is the slice of the health service the handler needs.
type Checker interface {
	Check(ctx context.Context) *models.HealthReport
}

type HealthHandler struct {
	health Checker
}

func NewHealthHandler(health Checker) *HealthHandler {
	return &HealthHandler{health: health}
}

func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	report := h.health.Check(r.Context())

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, report)
}
