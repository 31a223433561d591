package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/vitals-tracker/internal/service"
	"github.com/vcscsvcscs/vitals-tracker/pkg/api"
	"go.uber.org/zap"
)

// DashboardHandler implements dashboard API endpoints
type DashboardHandler struct {
	service *service.DashboardService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// GetApiV1Dashboard retrieves the trend view of a range
func (h *DashboardHandler) GetApiV1Dashboard(c *gin.Context, params api.GetApiV1DashboardParams) {
	dash, err := h.service.Summary(c.Request.Context(), rangeValue(params.Range))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get dashboard summary")
		return
	}

	c.JSON(http.StatusOK, dash)
}

// GetApiV1DashboardChart renders a trend chart page
func (h *DashboardHandler) GetApiV1DashboardChart(c *gin.Context, params api.GetApiV1DashboardChartParams) {
	metric := ""
	if params.Metric != nil {
		metric = string(*params.Metric)
	}

	page, err := h.service.Chart(c.Request.Context(), rangeValue(params.Range), metric)
	if err != nil {
		respondError(c, h.logger, err, "Failed to render chart")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
