package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/vitals-tracker/pkg/api"
)

// HealthHandler reports liveness and the configured backends
type HealthHandler struct {
	store    string
	provider string
	reports  bool
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store, provider string, reports bool) *HealthHandler {
	return &HealthHandler{
		store:    store,
		provider: provider,
		reports:  reports,
	}
}

// GetHealth implements the health check endpoint
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Status:     "healthy",
		Store:      stringPtr(h.store),
		AiProvider: stringPtr(h.provider),
		Reports:    boolPtr(h.reports),
	})
}
