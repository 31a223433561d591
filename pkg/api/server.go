package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(c *gin.Context)
	// (GET /api/v1/vitals)
	GetApiV1Vitals(c *gin.Context)
	// (POST /api/v1/vitals)
	PostApiV1Vitals(c *gin.Context)
	// (GET /api/v1/vitals/csv)
	GetApiV1VitalsCsv(c *gin.Context)
	// (GET /api/v1/dashboard)
	GetApiV1Dashboard(c *gin.Context, params GetApiV1DashboardParams)
	// (GET /api/v1/dashboard/chart)
	GetApiV1DashboardChart(c *gin.Context, params GetApiV1DashboardChartParams)
	// (GET /api/v1/assistant/messages)
	GetApiV1AssistantMessages(c *gin.Context)
	// (POST /api/v1/assistant/messages)
	PostApiV1AssistantMessages(c *gin.Context)
	// (DELETE /api/v1/assistant/messages)
	DeleteApiV1AssistantMessages(c *gin.Context)
	// (POST /api/v1/assistant/health-data)
	PostApiV1AssistantHealthData(c *gin.Context)
	// (POST /api/v1/reports)
	PostApiV1Reports(c *gin.Context, params PostApiV1ReportsParams)
	// (GET /api/v1/reports/{file})
	GetApiV1ReportsFile(c *gin.Context, file string)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandler       func(*gin.Context, error, int)
}

// MiddlewareFunc runs before the wrapped handler
type MiddlewareFunc func(c *gin.Context)

func (siw *ServerInterfaceWrapper) run(c *gin.Context, handle func(c *gin.Context)) {
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}
	handle(c)
}

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(c *gin.Context) {
	siw.run(c, siw.Handler.GetHealth)
}

// GetApiV1Vitals operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1Vitals(c *gin.Context) {
	siw.run(c, siw.Handler.GetApiV1Vitals)
}

// PostApiV1Vitals operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1Vitals(c *gin.Context) {
	siw.run(c, siw.Handler.PostApiV1Vitals)
}

// GetApiV1VitalsCsv operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1VitalsCsv(c *gin.Context) {
	siw.run(c, siw.Handler.GetApiV1VitalsCsv)
}

// GetApiV1Dashboard operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1Dashboard(c *gin.Context) {
	var params GetApiV1DashboardParams

	if err := runtime.BindQueryParameter("form", true, false, "range", c.Request.URL.Query(), &params.Range); err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter range: %w", err), http.StatusBadRequest)
		return
	}

	siw.run(c, func(c *gin.Context) { siw.Handler.GetApiV1Dashboard(c, params) })
}

// GetApiV1DashboardChart operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1DashboardChart(c *gin.Context) {
	var params GetApiV1DashboardChartParams

	if err := runtime.BindQueryParameter("form", true, false, "range", c.Request.URL.Query(), &params.Range); err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter range: %w", err), http.StatusBadRequest)
		return
	}

	if err := runtime.BindQueryParameter("form", true, false, "metric", c.Request.URL.Query(), &params.Metric); err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter metric: %w", err), http.StatusBadRequest)
		return
	}

	siw.run(c, func(c *gin.Context) { siw.Handler.GetApiV1DashboardChart(c, params) })
}

// GetApiV1AssistantMessages operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1AssistantMessages(c *gin.Context) {
	siw.run(c, siw.Handler.GetApiV1AssistantMessages)
}

// PostApiV1AssistantMessages operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1AssistantMessages(c *gin.Context) {
	siw.run(c, siw.Handler.PostApiV1AssistantMessages)
}

// DeleteApiV1AssistantMessages operation middleware
func (siw *ServerInterfaceWrapper) DeleteApiV1AssistantMessages(c *gin.Context) {
	siw.run(c, siw.Handler.DeleteApiV1AssistantMessages)
}

// PostApiV1AssistantHealthData operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1AssistantHealthData(c *gin.Context) {
	siw.run(c, siw.Handler.PostApiV1AssistantHealthData)
}

// PostApiV1Reports operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1Reports(c *gin.Context) {
	var params PostApiV1ReportsParams

	if err := runtime.BindQueryParameter("form", true, false, "range", c.Request.URL.Query(), &params.Range); err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter range: %w", err), http.StatusBadRequest)
		return
	}

	siw.run(c, func(c *gin.Context) { siw.Handler.PostApiV1Reports(c, params) })
}

// GetApiV1ReportsFile operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1ReportsFile(c *gin.Context) {
	var file string

	err := runtime.BindStyledParameterWithOptions("simple", "file", c.Param("file"), &file, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter file: %w", err), http.StatusBadRequest)
		return
	}

	siw.run(c, func(c *gin.Context) { siw.Handler.GetApiV1ReportsFile(c, file) })
}

// GinServerOptions provides options for the Gin server.
type GinServerOptions struct {
	BaseURL      string
	Middlewares  []MiddlewareFunc
	ErrorHandler func(*gin.Context, error, int)
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, GinServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router gin.IRouter, si ServerInterface, options GinServerOptions) {
	errorHandler := options.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			c.JSON(statusCode, ErrorResponse{Code: CodeValidationError, Message: err.Error()})
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandler:       errorHandler,
	}

	router.GET(options.BaseURL+"/health", wrapper.GetHealth)
	router.GET(options.BaseURL+"/api/v1/vitals", wrapper.GetApiV1Vitals)
	router.POST(options.BaseURL+"/api/v1/vitals", wrapper.PostApiV1Vitals)
	router.GET(options.BaseURL+"/api/v1/vitals/csv", wrapper.GetApiV1VitalsCsv)
	router.GET(options.BaseURL+"/api/v1/dashboard", wrapper.GetApiV1Dashboard)
	router.GET(options.BaseURL+"/api/v1/dashboard/chart", wrapper.GetApiV1DashboardChart)
	router.GET(options.BaseURL+"/api/v1/assistant/messages", wrapper.GetApiV1AssistantMessages)
	router.POST(options.BaseURL+"/api/v1/assistant/messages", wrapper.PostApiV1AssistantMessages)
	router.DELETE(options.BaseURL+"/api/v1/assistant/messages", wrapper.DeleteApiV1AssistantMessages)
	router.POST(options.BaseURL+"/api/v1/assistant/health-data", wrapper.PostApiV1AssistantHealthData)
	router.POST(options.BaseURL+"/api/v1/reports", wrapper.PostApiV1Reports)
	router.GET(options.BaseURL+"/api/v1/reports/:file", wrapper.GetApiV1ReportsFile)
}
