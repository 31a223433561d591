package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/vitals-tracker/internal/audit"
	"github.com/vcscsvcscs/vitals-tracker/internal/service"
	"github.com/vcscsvcscs/vitals-tracker/pkg/api"
	"go.uber.org/zap"
)

// AssistantHandler implements the chat endpoints. It owns the single
// conversation of this process.
type AssistantHandler struct {
	service *service.AssistantService
	session *service.ChatSession
	audit   *audit.Logger
	logger  *zap.Logger
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(svc *service.AssistantService, historySize int, auditLogger *audit.Logger, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		service: svc,
		session: svc.NewSession(historySize),
		audit:   auditLogger,
		logger:  logger,
	}
}

// GetApiV1AssistantMessages returns the transcript
func (h *AssistantHandler) GetApiV1AssistantMessages(c *gin.Context) {
	c.JSON(http.StatusOK, api.MessagesResponse{Messages: h.session.Messages()})
}

// PostApiV1AssistantMessages sends a question to the assistant
func (h *AssistantHandler) PostApiV1AssistantMessages(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    api.CodeValidationError,
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	include := req.IncludeHealthData != nil && *req.IncludeHealthData
	exchange, err := h.service.Send(c.Request.Context(), h.session, req.Text, include)
	if err != nil {
		respondError(c, h.logger, err, "Failed to send message")
		return
	}

	c.JSON(http.StatusOK, exchangeResponse(exchange))
}

// DeleteApiV1AssistantMessages resets the transcript to the greeting
func (h *AssistantHandler) DeleteApiV1AssistantMessages(c *gin.Context) {
	messages := h.service.Clear(h.session)

	if h.audit != nil {
		_ = h.audit.LogDelete(c.Request.Context(), audit.ResourceTranscript, "assistant",
			c.GetString("request_id"), c.ClientIP(), c.Request.UserAgent())
	}

	c.JSON(http.StatusOK, api.MessagesResponse{Messages: messages})
}

// PostApiV1AssistantHealthData fetches the newest snapshot and analyzes it
func (h *AssistantHandler) PostApiV1AssistantHealthData(c *gin.Context) {
	exchange, err := h.service.FetchHealthData(c.Request.Context(), h.session)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch health data")
		return
	}

	c.JSON(http.StatusOK, exchangeResponse(exchange))
}

func exchangeResponse(e *service.Exchange) api.ExchangeResponse {
	resp := api.ExchangeResponse{Messages: e.Messages}
	if e.Alert != "" {
		resp.Alert = stringPtr(e.Alert)
	}
	return resp
}
