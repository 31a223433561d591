package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/vitals-tracker/internal/azure"
	"github.com/vcscsvcscs/vitals-tracker/internal/prompt"
	"github.com/vcscsvcscs/vitals-tracker/internal/repository"
	"github.com/vcscsvcscs/vitals-tracker/internal/service"
	"github.com/vcscsvcscs/vitals-tracker/pkg/api"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
	"go.uber.org/zap"
)

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// intPtr creates a pointer to an int
func intPtr(i int) *int {
	return &i
}

// boolPtr creates a pointer to a bool
func boolPtr(b bool) *bool {
	return &b
}

// rangeValue unwraps an optional range parameter
func rangeValue(r *api.Range) string {
	if r == nil {
		return ""
	}
	return string(*r)
}

// respondError maps service errors to the error response body
func respondError(c *gin.Context, logger *zap.Logger, err error, message string) {
	status, body := errorResponse(err, message)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	logger.Debug("request failed",
		zap.Error(err),
		zap.Int("status", status),
		zap.String("code", body.Code),
	)
	c.JSON(status, body)
}

func errorResponse(err error, message string) (int, api.ErrorResponse) {
	var fields model.FieldErrors
	switch {
	case errors.Is(err, service.ErrValidation):
		body := api.ErrorResponse{Code: api.CodeValidationError, Message: message, Details: stringPtr(err.Error())}
		if errors.As(err, &fields) {
			m := map[string]string(fields)
			body.Fields = &m
		}
		return http.StatusBadRequest, body
	case errors.Is(err, service.ErrRequestInProgress):
		return http.StatusConflict, api.ErrorResponse{
			Code:    api.CodeRequestInProgress,
			Message: "A request of this kind is already in progress",
		}
	case errors.Is(err, service.ErrReportsDisabled):
		return http.StatusServiceUnavailable, api.ErrorResponse{
			Code:    api.CodeReportsDisabled,
			Message: "Report storage is not configured",
		}
	case errors.Is(err, service.ErrNoData):
		return http.StatusNotFound, api.ErrorResponse{
			Code:    api.CodeNoData,
			Message: prompt.NoHealthData,
		}
	case errors.Is(err, azure.ErrReportNotFound):
		return http.StatusNotFound, api.ErrorResponse{
			Code:    api.CodeNotFound,
			Message: "Report not found",
		}
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusBadGateway, api.ErrorResponse{
			Code:    api.CodeStoreError,
			Message: message,
			Details: stringPtr(err.Error()),
		}
	default:
		return http.StatusInternalServerError, api.ErrorResponse{
			Code:    api.CodeInternalError,
			Message: message,
			Details: stringPtr(err.Error()),
		}
	}
}
