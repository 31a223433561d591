package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/vitals-tracker/internal/handler"
	"github.com/vcscsvcscs/vitals-tracker/internal/metrics"
	"github.com/vcscsvcscs/vitals-tracker/internal/middleware"
	"github.com/vcscsvcscs/vitals-tracker/pkg/api"
	"go.uber.org/zap"
)

// Handler assembles the API handlers, building the model client and the
// report storage on the way.
func (a *App) Handler(ctx context.Context) (*handler.APIHandler, error) {
	assistantService, ai, err := a.Assistant(ctx)
	if err != nil {
		return nil, err
	}

	reportService, err := a.Reports()
	if err != nil {
		return nil, err
	}
	if !reportService.Enabled() {
		a.Logger.Warn("report storage is not configured, reports are disabled")
	}

	return &handler.APIHandler{
		HealthHandler:    handler.NewHealthHandler(a.Config.Store.Backend, ai.Name(), reportService.Enabled()),
		VitalsHandler:    handler.NewVitalsHandler(a.Vitals, a.Audit, a.Logger),
		DashboardHandler: handler.NewDashboardHandler(a.Dashboard, a.Logger),
		AssistantHandler: handler.NewAssistantHandler(assistantService, a.Config.Assistant.HistorySize, a.Audit, a.Logger),
		ReportHandler:    handler.NewReportHandler(reportService, a.Audit, a.Logger),
	}, nil
}

// NewRouter builds the gin engine with the middleware chain, the API routes,
// the metrics endpoint and the served OpenAPI document.
func (a *App) NewRouter(h api.ServerInterface) (*gin.Engine, error) {
	doc, err := api.GetSwagger()
	if err != nil {
		return nil, err
	}
	validator, err := middleware.OpenAPIValidationMiddleware(doc, a.Logger)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(a.Logger))

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  len(a.Config.Server.AllowOrigins) == 0,
		AllowOrigins:     a.Config.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(a.Logger))
	r.Use(middleware.ErrorLoggingMiddleware(a.Logger))
	r.Use(middleware.TimeoutMiddleware(a.Config.Server.RequestTimeout))

	// Routes outside the OpenAPI document skip contract validation
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", api.SpecYAML())
	})

	r.Use(validator)
	api.RegisterHandlers(r, h)

	a.Logger.Debug("router ready", zap.Int("routes", len(r.Routes())))
	return r, nil
}
