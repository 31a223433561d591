package handler

import (
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/vitals-tracker/internal/audit"
	"github.com/vcscsvcscs/vitals-tracker/internal/service"
	"github.com/vcscsvcscs/vitals-tracker/pkg/api"
	"go.uber.org/zap"
)

// ReportHandler implements report API endpoints
type ReportHandler struct {
	service *service.ReportService
	audit   *audit.Logger
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, auditLogger *audit.Logger, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		audit:   auditLogger,
		logger:  logger,
	}
}

// PostApiV1Reports generates and uploads a report pair
func (h *ReportHandler) PostApiV1Reports(c *gin.Context, params api.PostApiV1ReportsParams) {
	report, err := h.service.Generate(c.Request.Context(), rangeValue(params.Range))
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate report")
		return
	}

	if h.audit != nil {
		_ = h.audit.LogCreate(c.Request.Context(), audit.ResourceReport, report.PDFBlob,
			c.GetString("request_id"), c.ClientIP(), c.Request.UserAgent())
	}

	c.JSON(http.StatusCreated, api.Report{
		Window:      string(report.Window),
		CsvBlob:     report.CSVBlob,
		PdfBlob:     report.PDFBlob,
		Readings:    report.Readings,
		GeneratedAt: report.GeneratedAt,
	})
}

// GetApiV1ReportsFile downloads a stored report
func (h *ReportHandler) GetApiV1ReportsFile(c *gin.Context, file string) {
	data, err := h.service.Download(c.Request.Context(), file)
	if err != nil {
		respondError(c, h.logger, err, "Failed to download report")
		return
	}

	contentType := mime.TypeByExtension(path.Ext(file))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(file)}))
	c.Data(http.StatusOK, contentType, data)
}
