package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/vitals-tracker/internal/audit"
	"github.com/vcscsvcscs/vitals-tracker/internal/service"
	"github.com/vcscsvcscs/vitals-tracker/pkg/api"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
	"go.uber.org/zap"
)

// VitalsHandler implements vital-sign endpoints
type VitalsHandler struct {
	service *service.VitalsService
	audit   *audit.Logger
	logger  *zap.Logger
}

// NewVitalsHandler creates a new VitalsHandler
func NewVitalsHandler(service *service.VitalsService, auditLogger *audit.Logger, logger *zap.Logger) *VitalsHandler {
	return &VitalsHandler{
		service: service,
		audit:   auditLogger,
		logger:  logger,
	}
}

// PostApiV1Vitals submits one entry form
func (h *VitalsHandler) PostApiV1Vitals(c *gin.Context) {
	var form model.VitalsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.logger.Info("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    api.CodeValidationError,
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	key, err := h.service.Submit(c.Request.Context(), &form)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save vital signs")
		return
	}

	if h.audit != nil {
		_ = h.audit.LogCreate(c.Request.Context(), audit.ResourceVitalSigns, key,
			c.GetString("request_id"), c.ClientIP(), c.Request.UserAgent())
	}

	c.JSON(http.StatusCreated, api.SubmitVitalsResponse{
		Key:  key,
		Form: form,
	})
}

// GetApiV1Vitals lists the normalized records, newest first
func (h *VitalsHandler) GetApiV1Vitals(c *gin.Context) {
	batch, err := h.service.Records(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch vital signs")
		return
	}

	c.JSON(http.StatusOK, api.VitalRecordsResponse{
		Records: batch.Records,
		Skipped: intPtr(batch.Skipped),
		NoData:  batch.NoData(),
	})
}

// GetApiV1VitalsCsv renders the tabular projection
func (h *VitalsHandler) GetApiV1VitalsCsv(c *gin.Context) {
	out, err := h.service.CSV(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to export vital signs")
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(out))
}
