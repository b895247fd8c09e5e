package handlers

import (
	"net/http"

	"github.com/fiscaldesk/hub/internal/api/response"
)

// HealthHandler handles liveness probes. It reports process health only; index
// readiness lives on the status endpoint.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
